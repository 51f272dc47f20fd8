package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestLoopRestartsAfterError verifies that a failing body is restarted rather
// than terminating the loop.
func TestLoopRestartsAfterError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		Loop(ctx, zap.NewNop().Sugar(), "flaky", time.Millisecond, func(context.Context) error {
			if runs.Add(1) >= 3 {
				cancel()
				return nil
			}
			return errors.New("transient")
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}

// TestLoopRecoversPanic verifies that a panicking body does not take the loop
// down with it.
func TestLoopRecoversPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		Loop(ctx, zap.NewNop().Sugar(), "panicky", time.Millisecond, func(context.Context) error {
			if runs.Add(1) >= 2 {
				cancel()
				return nil
			}
			panic("boom")
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not survive the panic")
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

// TestLoopStopsOnCancel verifies prompt exit when the context is already
// canceled.
func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	Loop(ctx, zap.NewNop().Sugar(), "stopped", time.Millisecond, func(ctx context.Context) error {
		ran = true
		<-ctx.Done()
		return ctx.Err()
	})
	assert.True(t, ran)
}
