package sched

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/dreamware/prism/internal/state"
)

// ErrCatalogTooSmall is returned when the animation catalog has fewer than
// two distinct entries. Selection excludes the previous animation, so a
// single-entry catalog could never produce a next pick.
var ErrCatalogTooSmall = errors.New("animation catalog needs at least two distinct entries")

// RotatorOptions configures rotation timing. Zero values pick the device
// defaults: 90s rotation, 10s lock window, 60s maximum lock extension, 1s
// lock poll.
type RotatorOptions struct {
	Interval         time.Duration
	LockWindow       time.Duration
	MaxLockExtension time.Duration
	PollInterval     time.Duration

	Clock clockwork.Clock
	Rand  *rand.Rand
}

// Rotator periodically selects a new animation and publishes it into the
// shared state. A recent pause request (the last_locked_animation key) defers
// the next rotation while it stays within the lock window, but the total
// delay past the nominal interval never exceeds the maximum lock extension.
type Rotator struct {
	catalog []string
	store   *state.Store
	opts    RotatorOptions
	log     *zap.SugaredLogger

	prev string
}

// NewRotator validates the catalog and builds a rotator.
func NewRotator(catalog []string, store *state.Store, opts RotatorOptions, log *zap.SugaredLogger) (*Rotator, error) {
	distinct := make(map[string]struct{}, len(catalog))
	for _, name := range catalog {
		distinct[name] = struct{}{}
	}
	if len(distinct) < 2 {
		return nil, ErrCatalogTooSmall
	}
	if opts.Interval <= 0 {
		opts.Interval = 90 * time.Second
	}
	if opts.LockWindow <= 0 {
		opts.LockWindow = 10 * time.Second
	}
	if opts.MaxLockExtension <= 0 {
		opts.MaxLockExtension = 60 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Rotator{
		catalog: append([]string(nil), catalog...),
		store:   store,
		opts:    opts,
		log:     log,
	}, nil
}

// Run rotates until ctx is canceled.
func (r *Rotator) Run(ctx context.Context) error {
	for {
		start := r.opts.Clock.Now()
		next := r.pick()
		if err := r.store.Update(state.KeyAnimation, next); err != nil {
			return err
		}
		r.log.Infow("animation selected", "animation", next)

		if !r.sleep(ctx, r.opts.Interval) {
			return ctx.Err()
		}
		for r.holdForLock(start) {
			if !r.sleep(ctx, r.opts.PollInterval) {
				return ctx.Err()
			}
		}
	}
}

// pick draws uniformly from the catalog, re-sampling until the draw differs
// from the previous selection.
func (r *Rotator) pick() string {
	next := r.catalog[r.opts.Rand.Intn(len(r.catalog))]
	for next == r.prev {
		next = r.catalog[r.opts.Rand.Intn(len(r.catalog))]
	}
	r.prev = next
	return next
}

// holdForLock reports whether the pending rotation should stay deferred: a
// pause request must fall within the lock window measured backward from now,
// and the total elapsed time since the rotation started must stay under
// interval plus the maximum lock extension.
func (r *Rotator) holdForLock(rotationStart time.Time) bool {
	locked, ok := r.store.LastLocked()
	if !ok {
		return false
	}
	now := r.opts.Clock.Now()
	if now.Sub(locked) >= r.opts.LockWindow {
		return false
	}
	return now.Sub(rotationStart) < r.opts.Interval+r.opts.MaxLockExtension
}

func (r *Rotator) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-r.opts.Clock.After(d):
		return true
	}
}
