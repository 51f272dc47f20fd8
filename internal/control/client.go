package control

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// ErrUnknownRequest is returned when the coordinator answers with the
// UNKNOWN_REQUEST literal.
var ErrUnknownRequest = errors.New("coordinator rejected the request as unknown")

// ClientOptions configures the request client.
type ClientOptions struct {
	// Addr is the coordinator's TCP address, e.g. "192.168.4.1:8737".
	Addr string
	// ConnectTimeout bounds dialing. Defaults to 10s.
	ConnectTimeout time.Duration
	// ReadTimeout bounds reading the response frame. Defaults to 10s.
	ReadTimeout time.Duration
}

// Client performs one-shot queries against the coordinator's request server.
// Every call is a full connect/request/response/ACK/close exchange; a timeout
// aborts only that exchange, and the caller retries on its own schedule.
type Client struct {
	opts ClientOptions
	log  *zap.SugaredLogger
}

// NewClient creates a request client.
func NewClient(opts ClientOptions, log *zap.SugaredLogger) *Client {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	return &Client{opts: opts, log: log}
}

// FetchState asks the coordinator for its full state snapshot.
func (c *Client) FetchState(ctx context.Context) (*Snapshot, error) {
	resp, err := c.exchange(ctx, []byte(reqGetAnimation))
	if err != nil {
		return nil, err
	}
	var doc Snapshot
	if err := json.Unmarshal(resp, &doc); err != nil {
		return nil, fmt.Errorf("decode state response: %w", err)
	}
	return &doc, nil
}

// Lock records a pause request on the coordinator, deferring its next
// rotation while the lock window holds.
func (c *Client) Lock(ctx context.Context) error {
	resp, err := c.exchange(ctx, []byte(reqLockAnimation))
	if err != nil {
		return err
	}
	if !bytes.Equal(resp, []byte(respLocked)) {
		return fmt.Errorf("unexpected lock response %q", resp)
	}
	return nil
}

// exchange runs one framed request/response round trip. The connection is
// closed on every exit path; the trailing ACK is best-effort.
func (c *Client) exchange(ctx context.Context, request []byte) ([]byte, error) {
	dialer := net.Dialer{Timeout: c.opts.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.opts.Addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.opts.ReadTimeout)); err != nil {
		return nil, err
	}
	if err := WriteFrame(conn, request); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	resp, err := ReadFrame(bufio.NewReader(conn))
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write([]byte(AckLiteral)); err != nil {
		c.log.Debugw("ack write failed", "error", err)
	}
	if bytes.Equal(resp, []byte(respUnknown)) {
		return nil, ErrUnknownRequest
	}
	return resp, nil
}
