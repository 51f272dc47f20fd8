package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeResetter struct {
	calls atomic.Int32
}

func (f *fakeResetter) Reset() error {
	f.calls.Add(1)
	return nil
}

// TestRestarterFiresAfterUptime verifies the reset happens once the fixed
// uptime elapses, independent of anything else in the process.
func TestRestarterFiresAfterUptime(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reset := &fakeResetter{}
	r := NewRestarter(30*time.Minute, reset, clock, zap.NewNop().Sugar())

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	clock.BlockUntil(1)
	clock.Advance(29 * time.Minute)
	assert.Equal(t, int32(0), reset.calls.Load())

	clock.Advance(time.Minute)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("restarter did not fire")
	}
	assert.Equal(t, int32(1), reset.calls.Load())
}

func TestRestarterCanceled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reset := &fakeResetter{}
	r := NewRestarter(30*time.Minute, reset, clock, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	clock.BlockUntil(1)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("restarter did not stop on cancellation")
	}
	assert.Equal(t, int32(0), reset.calls.Load())
}
