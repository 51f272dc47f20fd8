package radio

import (
	"errors"
	"sync"
)

// ErrRadioOff is returned by Sim operations that need the radio powered on.
var ErrRadioOff = errors.New("radio is not active")

// Sim is an in-memory Driver for development hosts and tests. A join attempt
// transitions through StatusConnecting and settles on JoinResult after
// JoinDelay polls of LinkStatus.
type Sim struct {
	// Visible is what Scan returns.
	Visible []Network

	// JoinResult is the status a join attempt settles on. Defaults to
	// StatusGotIP (zero JoinResult is StatusIdle, which is treated as success
	// for convenience).
	JoinResult Status

	// JoinDelay is how many LinkStatus polls report StatusConnecting before
	// settling on JoinResult.
	JoinDelay int

	mu         sync.Mutex
	active     bool
	joining    bool
	polls      int
	status     Status
	hostConfig bool
}

func (s *Sim) SetActive(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = on
	if !on {
		s.joining = false
		s.status = StatusIdle
	}
	return nil
}

// Active reports whether the radio is powered on. Test hook.
func (s *Sim) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Sim) Join(ssid, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ErrRadioOff
	}
	s.joining = true
	s.polls = 0
	s.status = StatusConnecting
	return nil
}

func (s *Sim) LinkStatus() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.joining {
		s.polls++
		if s.polls > s.JoinDelay {
			s.joining = false
			if s.JoinResult == StatusIdle {
				s.status = StatusGotIP
			} else {
				s.status = s.JoinResult
			}
		}
	}
	return s.status, nil
}

func (s *Sim) Scan() ([]Network, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil, ErrRadioOff
	}
	return append([]Network(nil), s.Visible...), nil
}

// HostNetwork records the hosted-network configuration. The hosted network
// reports active once the radio is powered on.
func (s *Sim) HostNetwork(ssid, password string, mode AuthMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hostConfig = true
	return nil
}

func (s *Sim) SetStaticAddr(ip, mask, gateway, dns string) error {
	return nil
}

func (s *Sim) HostActive() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active && s.hostConfig, nil
}
