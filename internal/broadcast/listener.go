package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/dreamware/prism/internal/state"
)

// ListenerOptions configures the UDP state listener.
type ListenerOptions struct {
	// Port is the fixed UDP port the coordinator broadcasts on.
	Port int
	// CycleLength bounds how long one socket lives before it is closed and
	// recreated. Defaults to 10s.
	CycleLength time.Duration
	// PollInterval is the per-read deadline within a cycle. Defaults to 100ms.
	PollInterval time.Duration
}

// Listener receives coordinator broadcasts and writes the animation field
// into the local shared state. The socket is deliberately torn down and
// recreated every cycle; long-lived sockets on small embedded network stacks
// have been observed to go quietly stale.
type Listener struct {
	store *state.Store
	opts  ListenerOptions
	log   *zap.SugaredLogger
}

// NewListener creates a listener writing into the given store.
func NewListener(store *state.Store, opts ListenerOptions, log *zap.SugaredLogger) *Listener {
	if opts.CycleLength <= 0 {
		opts.CycleLength = 10 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 100 * time.Millisecond
	}
	return &Listener{store: store, opts: opts, log: log}
}

// Run receives until ctx is canceled. A bad datagram never terminates the
// loop; a failure to bind does, so the supervising task can retry it.
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := l.cycle(ctx); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// cycle binds a fresh socket, receives for one cycle length, and closes it.
func (l *Listener) cycle(ctx context.Context) error {
	conn, err := net.ListenPacket("udp4", fmt.Sprintf(":%d", l.opts.Port))
	if err != nil {
		return fmt.Errorf("bind udp %d: %w", l.opts.Port, err)
	}
	defer conn.Close()

	buf := make([]byte, 2048)
	cycleEnd := time.Now().Add(l.opts.CycleLength)

	for time.Now().Before(cycleEnd) {
		if ctx.Err() != nil {
			return nil
		}
		if err := conn.SetReadDeadline(time.Now().Add(l.opts.PollInterval)); err != nil {
			l.log.Warnw("set read deadline", "error", err)
			return nil
		}
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			l.log.Warnw("broadcast receive failed", "error", err)
			continue
		}
		l.handle(buf[:n], from)
	}
	return nil
}

// handle decodes one datagram. Decode failures discard the datagram; an
// absent animation field leaves local state untouched.
func (l *Listener) handle(data []byte, from net.Addr) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		l.log.Warnw("discarding malformed datagram", "from", from, "error", err)
		return
	}
	value, present := fields["animation"]
	if !present {
		return
	}
	name, isString := value.(string)
	if !isString && value != nil {
		l.log.Warnw("discarding datagram with non-string animation", "from", from)
		return
	}
	if isString {
		err := l.store.Update(state.KeyAnimation, name)
		if err == nil {
			l.log.Debugw("animation received", "animation", name, "from", from)
		}
		return
	}
	_ = l.store.Update(state.KeyAnimation, nil)
}
