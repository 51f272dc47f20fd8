package control

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Sentinel terminates every request and response frame on the wire. It must
// not appear inside a payload.
const Sentinel byte = 0x00

// AckLiteral is the 3-byte courtesy acknowledgement a requester sends after
// reading a terminated response.
const AckLiteral = "ACK"

// ErrSentinelInPayload is returned by WriteFrame for payloads that contain
// the sentinel byte and therefore cannot be framed.
var ErrSentinelInPayload = errors.New("payload contains the frame sentinel")

// WriteFrame writes payload followed by the sentinel.
func WriteFrame(w io.Writer, payload []byte) error {
	if bytes.IndexByte(payload, Sentinel) >= 0 {
		return ErrSentinelInPayload
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := w.Write([]byte{Sentinel})
	return err
}

// ReadFrame reads one sentinel-terminated frame and returns the payload
// without the sentinel.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	data, err := r.ReadBytes(Sentinel)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return data[:len(data)-1], nil
}

// The request vocabulary is small and fixed, so dispatch is a closed enum
// with an exact-match parse rather than a handler table.
type command int

const (
	cmdUnknown command = iota
	cmdGetAnimation
	cmdLockAnimation
)

// Request and response literals of the wire protocol.
const (
	reqGetAnimation  = "GET_ANIMATION"
	reqLockAnimation = "LOCK_ANIMATION"
	respLocked       = "LOCKED"
	respUnknown      = "UNKNOWN_REQUEST"
)

func parseCommand(payload []byte) command {
	switch string(payload) {
	case reqGetAnimation:
		return cmdGetAnimation
	case reqLockAnimation:
		return cmdLockAnimation
	}
	return cmdUnknown
}
