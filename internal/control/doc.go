// Package control implements the framed TCP request/response protocol for
// on-demand queries against the coordinator.
//
// A frame is an opaque byte sequence terminated by a single 0x00 sentinel;
// the sentinel must not appear in the payload. One connection carries exactly
// one exchange: the client writes a request frame, reads a response frame,
// writes a 3-byte ACK and closes. Recognized requests are GET_ANIMATION
// (answered with the JSON state snapshot) and LOCK_ANIMATION (records a pause
// request and answers LOCKED); anything else is answered UNKNOWN_REQUEST.
//
// The server accepts the client's trailing ACK as a courtesy but never
// depends on it.
package control
