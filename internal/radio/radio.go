// Package radio declares the interface to the wireless driver. The sync core
// consumes these primitives; hardware ports provide the implementation, and
// Sim provides an in-memory one for development and tests.
package radio

// Status is the driver's link status code for station (follower) mode.
type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusGotIP
	StatusNoAPFound
	StatusWrongPassword
	StatusConnectFail
	StatusHandshakeTimeout
	StatusBeaconTimeout
)

// Terminal reports whether the status is a final negative code: once the
// driver lands here the current attempt cannot succeed and the caller should
// give up rather than keep polling.
func (s Status) Terminal() bool {
	switch s {
	case StatusNoAPFound, StatusWrongPassword, StatusConnectFail,
		StatusHandshakeTimeout, StatusBeaconTimeout:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusGotIP:
		return "got-ip"
	case StatusNoAPFound:
		return "no-ap-found"
	case StatusWrongPassword:
		return "wrong-password"
	case StatusConnectFail:
		return "connection-failed"
	case StatusHandshakeTimeout:
		return "handshake-timeout"
	case StatusBeaconTimeout:
		return "beacon-timeout"
	}
	return "unknown"
}

// AuthMode selects the security mode for a hosted network.
type AuthMode int

const (
	AuthOpen AuthMode = iota
	AuthWPAWPA2PSK
)

// Network is one scan result.
type Network struct {
	SSID    string
	Signal  int // RSSI, dBm
	Channel int
}

// Driver is the wireless driver surface the sync core depends on. A single
// handle is constructed at startup and passed into the components that need
// it; there is no package-level driver instance.
//
// Implementations are expected to be safe for use from one goroutine at a
// time per device role, matching how the supervisor and host-network
// components own their handle.
type Driver interface {
	// SetActive powers the radio on or off.
	SetActive(on bool) error

	// Join starts a station-mode association with the named network.
	// Completion is observed by polling LinkStatus.
	Join(ssid, password string) error

	// LinkStatus reports the current station-mode status code.
	LinkStatus() (Status, error)

	// Scan lists visible networks. Advisory only; callers must not gate
	// connection attempts on the result.
	Scan() ([]Network, error)

	// HostNetwork starts a hosted (access-point) network.
	HostNetwork(ssid, password string, mode AuthMode) error

	// SetStaticAddr configures static addressing for the hosted network.
	SetStaticAddr(ip, mask, gateway, dns string) error

	// HostActive reports whether the hosted network is up.
	HostActive() (bool, error)
}
