package control

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dreamware/prism/internal/state"
)

// Snapshot is the JSON document a GET_ANIMATION response carries: the full
// shared state, with the pause timestamp as fractional Unix seconds.
type Snapshot struct {
	Animation  *string  `json:"animation"`
	LastLocked *float64 `json:"last_locked_animation"`
}

// ServerOptions configures the request server.
type ServerOptions struct {
	// Addr is the TCP listen address, e.g. "192.168.4.1:8737".
	Addr string
	// ReadTimeout bounds reading the request frame. Defaults to 10s.
	ReadTimeout time.Duration
	// ResponseGrace is how long the handler lingers after writing its
	// response, giving the requester time to read it and send the courtesy
	// ACK. Defaults to 500ms.
	ResponseGrace time.Duration
}

// Server answers on-demand queries over the framed TCP protocol: one
// request/response exchange per connection. GET_ANIMATION returns the full
// state snapshot, LOCK_ANIMATION records a pause request, anything else gets
// an explicit UNKNOWN_REQUEST rather than a dropped connection.
type Server struct {
	store *state.Store
	opts  ServerOptions
	log   *zap.SugaredLogger

	mu   sync.Mutex
	addr net.Addr
}

// NewServer creates a request server over the given store.
func NewServer(store *state.Store, opts ServerOptions, log *zap.SugaredLogger) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.ResponseGrace <= 0 {
		opts.ResponseGrace = 500 * time.Millisecond
	}
	return &Server{store: store, opts: opts, log: log}
}

// Addr returns the bound listen address, or nil before Run has bound it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run listens and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()
	s.log.Infow("request server listening", "addr", ln.Addr().String())

	// Unblock Accept on cancellation.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warnw("accept failed", "error", err)
			continue
		}
		go s.handle(conn)
	}
}

// handle runs one exchange. The connection is closed on every exit path.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout)); err != nil {
		s.log.Warnw("set read deadline", "error", err)
		return
	}
	req, err := ReadFrame(bufio.NewReader(conn))
	if err != nil {
		s.log.Debugw("request read failed", "peer", conn.RemoteAddr(), "error", err)
		return
	}

	switch parseCommand(req) {
	case cmdGetAnimation:
		payload, err := json.Marshal(s.snapshot())
		if err != nil {
			s.log.Errorw("encode snapshot", "error", err)
			return
		}
		err = WriteFrame(conn, payload)
		s.logExchange("state served", conn, err)

	case cmdLockAnimation:
		if err := s.store.Update(state.KeyLastLocked, time.Now()); err != nil {
			s.log.Errorw("record pause request", "error", err)
			return
		}
		err = WriteFrame(conn, []byte(respLocked))
		s.logExchange("animation locked", conn, err)

	default:
		s.log.Warnw("unknown request", "peer", conn.RemoteAddr(), "payload", string(req))
		if err := WriteFrame(conn, []byte(respUnknown)); err != nil {
			s.log.Debugw("response write failed", "error", err)
		}
	}

	// Give the requester time to read the response, then drain its courtesy
	// ACK. The ACK is accepted but never required; its absence changes
	// nothing.
	time.Sleep(s.opts.ResponseGrace)
	_ = conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	_, _ = io.ReadFull(conn, make([]byte, len(AckLiteral)))
}

func (s *Server) logExchange(msg string, conn net.Conn, err error) {
	if err != nil {
		s.log.Debugw("response write failed", "peer", conn.RemoteAddr(), "error", err)
		return
	}
	s.log.Infow(msg, "peer", conn.RemoteAddr())
}

// snapshot converts the store's current contents to the wire document.
func (s *Server) snapshot() Snapshot {
	var doc Snapshot
	if name, ok := s.store.Animation(); ok {
		doc.Animation = &name
	}
	if ts, ok := s.store.LastLocked(); ok {
		seconds := float64(ts.UnixNano()) / float64(time.Second)
		doc.LastLocked = &seconds
	}
	return doc
}
