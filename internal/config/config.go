// Package config loads the device configuration. One YAML file, read once at
// startup, never hot-reloaded; every field has a default so the binaries run
// without a file at all.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dreamware/prism/internal/logger"
)

// Config is the full device configuration shared by both roles.
type Config struct {
	Network     NetworkConfig     `yaml:"network"`
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	Follower    FollowerConfig    `yaml:"follower"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Animations  []string          `yaml:"animations"`
	Log         logger.Config     `yaml:"log"`
}

// NetworkConfig names the wireless network and the two protocol ports.
type NetworkConfig struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
	TCPPort  int    `yaml:"tcp_port"`
	UDPPort  int    `yaml:"udp_port"`
}

// CoordinatorConfig holds the hosted network's static addressing and the
// coordinator-only knobs.
type CoordinatorConfig struct {
	IP                  string `yaml:"ip"`
	Subnet              string `yaml:"subnet"`
	Gateway             string `yaml:"gateway"`
	BroadcastAddr       string `yaml:"broadcast_addr"`
	ServeTCP            bool   `yaml:"serve_tcp"`
	RestartAfterMinutes int    `yaml:"restart_after_minutes"`
}

// FollowerConfig holds the connection-supervision knobs.
type FollowerConfig struct {
	ConnectAttempts        int `yaml:"connect_attempts"`
	AttemptIntervalSeconds int `yaml:"attempt_interval_seconds"`
	RecheckIntervalSeconds int `yaml:"recheck_interval_seconds"`
}

// SchedulerConfig holds the rotation timing.
type SchedulerConfig struct {
	RotationIntervalSeconds int `yaml:"rotation_interval_seconds"`
	LockWindowSeconds       int `yaml:"lock_window_seconds"`
	MaxLockExtensionSeconds int `yaml:"max_lock_extension_seconds"`
}

// Default returns the built-in configuration: the device constants every
// deployment starts from.
func Default() Config {
	return Config{
		Network: NetworkConfig{
			SSID:     "prism-net",
			Password: "change-me-please",
			TCPPort:  8737,
			UDPPort:  8738,
		},
		Coordinator: CoordinatorConfig{
			IP:                  "192.168.4.1",
			Subnet:              "255.255.255.0",
			Gateway:             "192.168.4.1",
			BroadcastAddr:       "255.255.255.255",
			ServeTCP:            true,
			RestartAfterMinutes: 30,
		},
		Follower: FollowerConfig{
			ConnectAttempts:        20,
			AttemptIntervalSeconds: 1,
			RecheckIntervalSeconds: 5,
		},
		Scheduler: SchedulerConfig{
			RotationIntervalSeconds: 90,
			LockWindowSeconds:       10,
			MaxLockExtensionSeconds: 60,
		},
		Animations: []string{"aurora", "comet", "pulse", "ember", "cascade"},
		Log: logger.Config{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults
// unchanged; a missing file is an error, a half-filled file keeps defaults
// for whatever it omits.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the components cannot run with.
func (c Config) Validate() error {
	if c.Network.SSID == "" {
		return errors.New("network.ssid must not be empty")
	}
	if err := validPort("network.tcp_port", c.Network.TCPPort); err != nil {
		return err
	}
	if err := validPort("network.udp_port", c.Network.UDPPort); err != nil {
		return err
	}
	if c.Network.TCPPort == c.Network.UDPPort {
		return errors.New("network.tcp_port and network.udp_port must differ")
	}
	for _, field := range []struct{ name, addr string }{
		{"coordinator.ip", c.Coordinator.IP},
		{"coordinator.gateway", c.Coordinator.Gateway},
		{"coordinator.broadcast_addr", c.Coordinator.BroadcastAddr},
	} {
		if net.ParseIP(field.addr) == nil {
			return fmt.Errorf("%s: invalid address %q", field.name, field.addr)
		}
	}
	distinct := make(map[string]struct{}, len(c.Animations))
	for _, name := range c.Animations {
		if name == "" {
			return errors.New("animations must not contain empty names")
		}
		distinct[name] = struct{}{}
	}
	if len(distinct) < 2 {
		return errors.New("animations needs at least two distinct entries")
	}
	return nil
}

func validPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s: %d is not a valid port", name, port)
	}
	return nil
}

// Duration views of the integer-second YAML fields.

func (s SchedulerConfig) RotationInterval() time.Duration {
	return time.Duration(s.RotationIntervalSeconds) * time.Second
}

func (s SchedulerConfig) LockWindow() time.Duration {
	return time.Duration(s.LockWindowSeconds) * time.Second
}

func (s SchedulerConfig) MaxLockExtension() time.Duration {
	return time.Duration(s.MaxLockExtensionSeconds) * time.Second
}

func (f FollowerConfig) AttemptInterval() time.Duration {
	return time.Duration(f.AttemptIntervalSeconds) * time.Second
}

func (f FollowerConfig) RecheckInterval() time.Duration {
	return time.Duration(f.RecheckIntervalSeconds) * time.Second
}

func (c CoordinatorConfig) RestartAfter() time.Duration {
	return time.Duration(c.RestartAfterMinutes) * time.Minute
}
