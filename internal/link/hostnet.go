package link

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/dreamware/prism/internal/radio"
)

// HostNetworkOptions carries the hosted network's identity and static
// addressing. The gateway address doubles as the name-resolver address.
type HostNetworkOptions struct {
	SSID     string
	Password string
	IP       string
	Subnet   string
	Gateway  string

	// PollInterval is how often the driver is asked whether the hosted
	// network is up during bring-up. Defaults to 100ms.
	PollInterval time.Duration

	Clock clockwork.Clock
}

// HostNetwork brings up the coordinator's hosted wireless network with static
// addressing and blocks until the driver reports it active.
type HostNetwork struct {
	drv  radio.Driver
	opts HostNetworkOptions
	log  *zap.SugaredLogger
}

// NewHostNetwork creates the coordinator-side network bring-up component.
func NewHostNetwork(drv radio.Driver, opts HostNetworkOptions, log *zap.SugaredLogger) *HostNetwork {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 100 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &HostNetwork{drv: drv, opts: opts, log: log}
}

// Start configures and activates the hosted network, then polls until the
// driver reports it active or ctx is canceled.
func (h *HostNetwork) Start(ctx context.Context) error {
	if err := h.drv.SetActive(false); err != nil {
		return err
	}
	if err := h.drv.HostNetwork(h.opts.SSID, h.opts.Password, radio.AuthWPAWPA2PSK); err != nil {
		return err
	}
	if err := h.drv.SetStaticAddr(h.opts.IP, h.opts.Subnet, h.opts.Gateway, h.opts.Gateway); err != nil {
		return err
	}
	if err := h.drv.SetActive(true); err != nil {
		return err
	}

	for {
		up, err := h.drv.HostActive()
		if err != nil {
			return err
		}
		if up {
			h.log.Infow("hosted network up", "ssid", h.opts.SSID, "ip", h.opts.IP)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.opts.Clock.After(h.opts.PollInterval):
		}
	}
}
