package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prism.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
network:
  ssid: lanterns
  password: hunter2
scheduler:
  rotation_interval_seconds: 120
animations: [drift, flare, drift, shimmer]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "lanterns", cfg.Network.SSID)
	assert.Equal(t, 120*time.Second, cfg.Scheduler.RotationInterval())
	assert.Equal(t, []string{"drift", "flare", "drift", "shimmer"}, cfg.Animations)

	// Untouched sections keep their defaults.
	assert.Equal(t, 8737, cfg.Network.TCPPort)
	assert.Equal(t, "192.168.4.1", cfg.Coordinator.IP)
	assert.Equal(t, 20, cfg.Follower.ConnectAttempts)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "network: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty ssid", func(c *Config) { c.Network.SSID = "" }, "ssid"},
		{"bad tcp port", func(c *Config) { c.Network.TCPPort = 0 }, "tcp_port"},
		{"bad udp port", func(c *Config) { c.Network.UDPPort = 70000 }, "udp_port"},
		{"port collision", func(c *Config) { c.Network.UDPPort = c.Network.TCPPort }, "differ"},
		{"bad coordinator ip", func(c *Config) { c.Coordinator.IP = "not-an-ip" }, "coordinator.ip"},
		{"bad broadcast addr", func(c *Config) { c.Coordinator.BroadcastAddr = "" }, "broadcast_addr"},
		{"empty animation name", func(c *Config) { c.Animations = []string{"drift", ""} }, "empty"},
		{"single animation", func(c *Config) { c.Animations = []string{"drift"} }, "two distinct"},
		{"duplicates only", func(c *Config) { c.Animations = []string{"drift", "drift"} }, "two distinct"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestDurationViews(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 90*time.Second, cfg.Scheduler.RotationInterval())
	assert.Equal(t, 10*time.Second, cfg.Scheduler.LockWindow())
	assert.Equal(t, 60*time.Second, cfg.Scheduler.MaxLockExtension())
	assert.Equal(t, time.Second, cfg.Follower.AttemptInterval())
	assert.Equal(t, 5*time.Second, cfg.Follower.RecheckInterval())
	assert.Equal(t, 30*time.Minute, cfg.Coordinator.RestartAfter())
}
