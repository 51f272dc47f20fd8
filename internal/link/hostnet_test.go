package link

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dreamware/prism/internal/radio"
)

func TestHostNetworkStart(t *testing.T) {
	drv := &radio.Sim{}
	hn := NewHostNetwork(drv, HostNetworkOptions{
		SSID:         "prism-net",
		Password:     "secret",
		IP:           "192.168.4.1",
		Subnet:       "255.255.255.0",
		Gateway:      "192.168.4.1",
		PollInterval: time.Millisecond,
	}, zap.NewNop().Sugar())

	require.NoError(t, hn.Start(context.Background()))

	up, err := drv.HostActive()
	require.NoError(t, err)
	assert.True(t, up)
}

func TestHostNetworkStartCanceled(t *testing.T) {
	// A driver that never reports the hosted network active.
	drv := neverUpDriver{}
	hn := NewHostNetwork(drv, HostNetworkOptions{PollInterval: time.Millisecond}, zap.NewNop().Sugar())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := hn.Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type neverUpDriver struct{}

func (neverUpDriver) SetActive(bool) error                               { return nil }
func (neverUpDriver) Join(string, string) error                          { return nil }
func (neverUpDriver) LinkStatus() (radio.Status, error)                  { return radio.StatusIdle, nil }
func (neverUpDriver) Scan() ([]radio.Network, error)                     { return nil, nil }
func (neverUpDriver) HostNetwork(string, string, radio.AuthMode) error   { return nil }
func (neverUpDriver) SetStaticAddr(string, string, string, string) error { return nil }
func (neverUpDriver) HostActive() (bool, error)                          { return false, nil }
