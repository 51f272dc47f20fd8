package sched

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Resetter performs a full device reset. On hardware this maps to the
// platform reset primitive; on a hosted process it exits so the process
// supervisor brings the binary back up.
type Resetter interface {
	Reset() error
}

// Restarter unconditionally resets the device after a fixed uptime. It is a
// coarse watchdog against accumulated faults, not an error response: it fires
// regardless of the health of any other component.
type Restarter struct {
	after time.Duration
	reset Resetter
	clock clockwork.Clock
	log   *zap.SugaredLogger
}

// NewRestarter builds a restarter that fires after the given uptime.
// A zero duration picks the 30 minute default.
func NewRestarter(after time.Duration, reset Resetter, clock clockwork.Clock, log *zap.SugaredLogger) *Restarter {
	if after <= 0 {
		after = 30 * time.Minute
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Restarter{after: after, reset: reset, clock: clock, log: log}
}

// Run sleeps for the configured uptime and then resets. It returns early only
// on cancellation.
func (r *Restarter) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.clock.After(r.after):
	}
	r.log.Infow("scheduled restart", "uptime", r.after)
	return r.reset.Reset()
}
