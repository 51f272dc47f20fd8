// Package task provides the supervisory wrapper every long-running device
// loop runs under: run, catch, log, continue. It replaces the per-loop
// try/except blocks the components would otherwise each carry.
package task

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

// DefaultRestartDelay is how long Loop waits before restarting a body that
// returned or panicked.
const DefaultRestartDelay = time.Second

// Loop runs fn until ctx is canceled. A returned error or a recovered panic
// is logged and fn is started again after delay; a nil return restarts it
// immediately. Loop itself only returns when ctx is done, so a task can never
// silently die.
func Loop(ctx context.Context, log *zap.SugaredLogger, name string, delay time.Duration, fn func(context.Context) error) {
	if delay <= 0 {
		delay = DefaultRestartDelay
	}
	for {
		if err := runOnce(ctx, log, name, fn); err != nil && ctx.Err() == nil {
			log.Errorw("task failed, restarting", "task", name, "error", err, "delay", delay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}
		if ctx.Err() != nil {
			log.Debugw("task stopped", "task", name)
			return
		}
	}
}

// Go launches Loop on its own goroutine.
func Go(ctx context.Context, log *zap.SugaredLogger, name string, delay time.Duration, fn func(context.Context) error) {
	go Loop(ctx, log, name, delay, fn)
}

// runOnce invokes fn with panic containment. A panic is converted into the
// returned error's place: it is logged with its stack and reported as a
// generic failure so the caller restarts the body.
func runOnce(ctx context.Context, log *zap.SugaredLogger, name string, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("task panicked", "task", name, "panic", r, "stack", string(debug.Stack()))
			err = &PanicError{Task: name, Value: r}
		}
	}()
	return fn(ctx)
}

// PanicError reports a recovered panic from a task body.
type PanicError struct {
	Task  string
	Value any
}

func (e *PanicError) Error() string {
	return "panic in task " + e.Task
}
