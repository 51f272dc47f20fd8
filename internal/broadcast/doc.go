// Package broadcast propagates the coordinator's animation selection to
// followers over one-way UDP. The coordinator sends a JSON datagram of the
// form {"animation": <string|null>} to the network broadcast address once a
// second; followers bind the fixed port and mirror whatever arrives into
// their local state.
//
// The protocol is deliberately lossy: a dropped datagram is made up for by
// the next one, and a follower may briefly hold a selection that is one
// rotation stale. Convergence, not consistency.
package broadcast
