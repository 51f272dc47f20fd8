package link

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/dreamware/prism/internal/radio"
)

// ConnectionState is the supervisor's view of the station link.
type ConnectionState struct {
	Phase  Phase
	Reason string // failure reason, set only when Phase is PhaseFailed
}

// Phase enumerates the link lifecycle.
type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseDisconnected:
		return "disconnected"
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// SupervisorOptions configures a Supervisor. Zero values pick the defaults
// used on the devices.
type SupervisorOptions struct {
	SSID     string
	Password string

	// Attempts is how many times LinkStatus is polled per connect attempt.
	Attempts int
	// AttemptInterval is the wait between status polls.
	AttemptInterval time.Duration
	// SettleDelay is the pause between powering the radio off and on.
	SettleDelay time.Duration
	// RecheckInterval is how often Maintain re-examines the link.
	RecheckInterval time.Duration

	Clock clockwork.Clock
}

// Supervisor brings up and maintains a follower's station link. Connect never
// returns an error: every driver fault is caught, logged and converted into a
// false result with the radio forced off, so the next retry starts from a
// known-off state.
type Supervisor struct {
	drv  radio.Driver
	opts SupervisorOptions
	log  *zap.SugaredLogger

	state ConnectionState
}

// NewSupervisor creates a supervisor for the given driver.
func NewSupervisor(drv radio.Driver, opts SupervisorOptions, log *zap.SugaredLogger) *Supervisor {
	if opts.Attempts <= 0 {
		opts.Attempts = 20
	}
	if opts.AttemptInterval <= 0 {
		opts.AttemptInterval = time.Second
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 200 * time.Millisecond
	}
	if opts.RecheckInterval <= 0 {
		opts.RecheckInterval = 5 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Supervisor{drv: drv, opts: opts, log: log}
}

// State returns the supervisor's current view of the link. Only the
// supervisor's own goroutine mutates it; other goroutines should treat the
// value as diagnostic.
func (s *Supervisor) State() ConnectionState {
	return s.state
}

// Connect performs one full connection attempt: power-cycle the radio, scan
// (advisory only), join, then poll the link status until an address is
// acquired, a terminal code appears, or the poll budget runs out.
func (s *Supervisor) Connect(ctx context.Context) bool {
	s.state = ConnectionState{Phase: PhaseConnecting}

	if err := s.drv.SetActive(false); err != nil {
		return s.fail("radio deactivate failed", err)
	}
	if !s.sleep(ctx, s.opts.SettleDelay) {
		return s.abort()
	}
	if err := s.drv.SetActive(true); err != nil {
		return s.fail("radio activate failed", err)
	}

	// The scan outcome is logged but never gates the attempt; a hidden or
	// momentarily invisible network can still be joined.
	if nets, err := s.drv.Scan(); err != nil {
		s.log.Warnw("scan failed", "error", err)
	} else {
		s.log.Infow("scan complete", "networks", len(nets), "target_visible", containsSSID(nets, s.opts.SSID))
	}

	st, err := s.drv.LinkStatus()
	if err != nil {
		return s.fail("link status failed", err)
	}
	if st != radio.StatusGotIP {
		if err := s.drv.Join(s.opts.SSID, s.opts.Password); err != nil {
			return s.fail("join request failed", err)
		}
	}

	for i := 0; i < s.opts.Attempts; i++ {
		st, err = s.drv.LinkStatus()
		if err != nil {
			return s.fail("link status failed", err)
		}
		if st == radio.StatusGotIP {
			s.state = ConnectionState{Phase: PhaseConnected}
			s.log.Infow("link up", "ssid", s.opts.SSID)
			return true
		}
		if st.Terminal() {
			break
		}
		if !s.sleep(ctx, s.opts.AttemptInterval) {
			return s.abort()
		}
	}

	s.state = ConnectionState{Phase: PhaseFailed, Reason: failureReason(st)}
	s.log.Warnw("connect failed", "ssid", s.opts.SSID, "reason", s.state.Reason)
	s.shutdownRadio()
	return false
}

// Maintain runs until ctx is canceled, rechecking the link on a fixed
// interval and triggering Connect whenever it is down. Fixed-interval retry
// is deliberate: recovery speed over backoff sophistication.
func (s *Supervisor) Maintain(ctx context.Context) error {
	for {
		st, err := s.drv.LinkStatus()
		if err != nil || st != radio.StatusGotIP {
			if err != nil {
				s.log.Warnw("link status failed", "error", err)
			}
			s.Connect(ctx)
		}
		if !s.sleep(ctx, s.opts.RecheckInterval) {
			return ctx.Err()
		}
	}
}

// fail logs a driver fault and converts it to a false result, forcing the
// radio off on the way out.
func (s *Supervisor) fail(msg string, err error) bool {
	s.log.Errorw(msg, "error", err)
	s.state = ConnectionState{Phase: PhaseFailed, Reason: "unknown"}
	s.shutdownRadio()
	return false
}

// abort handles context cancellation mid-attempt.
func (s *Supervisor) abort() bool {
	s.state = ConnectionState{Phase: PhaseDisconnected}
	s.shutdownRadio()
	return false
}

// shutdownRadio is best-effort; a failure to power off is logged and dropped.
func (s *Supervisor) shutdownRadio() {
	if err := s.drv.SetActive(false); err != nil {
		s.log.Warnw("radio deactivate failed", "error", err)
	}
}

// sleep waits d or until cancellation; reports false when canceled.
func (s *Supervisor) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-s.opts.Clock.After(d):
		return true
	}
}

func failureReason(st radio.Status) string {
	if st.Terminal() {
		return st.String()
	}
	return "unknown"
}

func containsSSID(nets []radio.Network, ssid string) bool {
	for _, n := range nets {
		if n.SSID == ssid {
			return true
		}
	}
	return false
}
