// Package state holds the shared device state: the currently selected
// animation and the timestamp of the most recent pause request.
//
// A Store is created once at process start with both keys present and nil and
// lives for the process lifetime. It is the only resource shared across the
// device's component loops; the scheduler and request server write on the
// coordinator, the broadcast listener writes on followers, and everything
// reads through point-in-time snapshots.
//
// Concurrency: all access goes through *Store methods, which hold an internal
// RWMutex. Snapshot returns a copy suitable for use without further locking.
package state
