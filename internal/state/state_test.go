package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewStore verifies that a fresh store carries both fixed keys with nil
// values.
func TestNewStore(t *testing.T) {
	s := New()

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Contains(t, snap, KeyAnimation)
	assert.Contains(t, snap, KeyLastLocked)
	assert.Nil(t, snap[KeyAnimation])
	assert.Nil(t, snap[KeyLastLocked])

	_, ok := s.Animation()
	assert.False(t, ok)
	_, ok = s.LastLocked()
	assert.False(t, ok)
}

func TestStoreUpdate(t *testing.T) {
	t.Run("replaces existing keys", func(t *testing.T) {
		s := New()

		locked := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, s.Update(KeyAnimation, "comet"))
		require.NoError(t, s.Update(KeyLastLocked, locked))

		name, ok := s.Animation()
		require.True(t, ok)
		assert.Equal(t, "comet", name)

		ts, ok := s.LastLocked()
		require.True(t, ok)
		assert.Equal(t, locked, ts)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		s := New()

		err := s.Update("brightness", 42)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownKey)

		// The key set must not have grown.
		assert.Len(t, s.Snapshot(), 2)
	})

	t.Run("allows clearing back to nil", func(t *testing.T) {
		s := New()

		require.NoError(t, s.Update(KeyAnimation, "comet"))
		require.NoError(t, s.Update(KeyAnimation, nil))

		_, ok := s.Animation()
		assert.False(t, ok)
	})
}

// TestSnapshotIsolation verifies that a snapshot is a point-in-time copy:
// later writes to the store do not show through it, and mutating the snapshot
// does not reach the store.
func TestSnapshotIsolation(t *testing.T) {
	s := New()
	require.NoError(t, s.Update(KeyAnimation, "aurora"))

	snap := s.Snapshot()
	require.NoError(t, s.Update(KeyAnimation, "comet"))
	assert.Equal(t, "aurora", snap[KeyAnimation])

	snap[KeyAnimation] = "tampered"
	name, ok := s.Animation()
	require.True(t, ok)
	assert.Equal(t, "comet", name)
}

// TestStoreConcurrency hammers the store from multiple goroutines; run with
// -race to verify the locking.
func TestStoreConcurrency(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Update(KeyAnimation, "pulse")
				_ = s.Update(KeyLastLocked, time.Now())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := s.Snapshot()
				// Either nil or a complete value, never a partial state.
				assert.Len(t, snap, 2)
			}
		}()
	}
	wg.Wait()
}
