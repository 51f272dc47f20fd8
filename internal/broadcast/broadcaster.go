package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/dreamware/prism/internal/state"
)

// Message is the broadcast wire value. Framing is "one UDP datagram = one
// message"; no length prefix, UTF-8 JSON.
type Message struct {
	Animation *string `json:"animation"`
}

// BroadcasterOptions configures the UDP state broadcaster.
type BroadcasterOptions struct {
	// Addr is the destination address, normally the network broadcast
	// address. Defaults to 255.255.255.255.
	Addr string
	// Port is the fixed UDP port followers listen on.
	Port int
	// Period is the send interval. Defaults to 1s.
	Period time.Duration
}

// Broadcaster periodically reads a state snapshot and emits the animation
// field as a UDP broadcast datagram. Sends are best-effort: a would-block
// condition is expected and silently ignored, any other fault is logged and
// the loop keeps going.
type Broadcaster struct {
	store *state.Store
	opts  BroadcasterOptions
	log   *zap.SugaredLogger
}

// NewBroadcaster creates a broadcaster over the given store.
func NewBroadcaster(store *state.Store, opts BroadcasterOptions, log *zap.SugaredLogger) *Broadcaster {
	if opts.Addr == "" {
		opts.Addr = "255.255.255.255"
	}
	if opts.Period <= 0 {
		opts.Period = time.Second
	}
	return &Broadcaster{store: store, opts: opts, log: log}
}

// Run opens the send socket and broadcasts until ctx is canceled.
func (b *Broadcaster) Run(ctx context.Context) error {
	conn, err := openBroadcastConn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	dest := &net.UDPAddr{IP: net.ParseIP(b.opts.Addr), Port: b.opts.Port}

	for {
		b.send(conn, dest)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.opts.Period):
		}
	}
}

func (b *Broadcaster) send(conn net.PacketConn, dest net.Addr) {
	var msg Message
	if name, ok := b.store.Animation(); ok {
		msg.Animation = &name
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		b.log.Errorw("encode broadcast", "error", err)
		return
	}
	if _, err := conn.WriteTo(payload, dest); err != nil {
		if !wouldBlock(err) {
			b.log.Warnw("broadcast send failed", "error", err)
		}
		return
	}
	b.log.Debugw("state broadcast", "payload", string(payload))
}

// openBroadcastConn binds an unconnected UDP socket with SO_BROADCAST set so
// datagrams may target the broadcast address.
func openBroadcastConn(ctx context.Context) (net.PacketConn, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
	return lc.ListenPacket(ctx, "udp4", ":0")
}

// wouldBlock reports the no-buffer-space/try-again class of transient send
// failures that non-blocking broadcast sockets produce under load.
func wouldBlock(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return errno == unix.EAGAIN || errno == unix.EWOULDBLOCK || errno == unix.ENOBUFS
}
