// Package main implements the Prism coordinator, the single device that hosts
// the wireless network and owns the animation rotation for a fleet of display
// followers.
//
// The coordinator is the source of truth for the fleet:
//   - Hosts the wireless network with static addressing
//   - Rotates the active animation on a fixed interval
//   - Broadcasts the current state over UDP once a second
//   - Answers on-demand TCP queries (GET_ANIMATION, LOCK_ANIMATION)
//   - Restarts itself on a fixed uptime schedule
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│             Coordinator                  │
//	├─────────────────────────────────────────┤
//	│  Tasks (each supervised, restarted      │
//	│  on failure):                           │
//	│    rotator        - animation schedule  │
//	│    broadcaster    - UDP state fan-out   │
//	│    request-server - framed TCP queries  │
//	│    restarter      - uptime watchdog     │
//	├─────────────────────────────────────────┤
//	│  Shared:                                │
//	│    state.Store    - animation state     │
//	│    radio.Driver   - wireless hardware   │
//	└─────────────────────────────────────────┘
//
// Configuration is a single optional YAML file:
//
//	./coordinator -config /etc/prism/prism.yaml
//
// Without a file the built-in defaults apply.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dreamware/prism/internal/broadcast"
	"github.com/dreamware/prism/internal/config"
	"github.com/dreamware/prism/internal/control"
	"github.com/dreamware/prism/internal/link"
	"github.com/dreamware/prism/internal/logger"
	"github.com/dreamware/prism/internal/radio"
	"github.com/dreamware/prism/internal/sched"
	"github.com/dreamware/prism/internal/state"
	"github.com/dreamware/prism/internal/task"
)

// restartExitCode marks a scheduled restart so the process supervisor can
// tell it apart from a crash.
const restartExitCode = 86

func main() {
	cfgPath := flag.String("config", "", "path to YAML configuration (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log).Sugar().Named("coordinator")
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := state.New()
	drv := newDriver()

	// The hosted network must be up before anything is scheduled or served.
	host := link.NewHostNetwork(drv, link.HostNetworkOptions{
		SSID:     cfg.Network.SSID,
		Password: cfg.Network.Password,
		IP:       cfg.Coordinator.IP,
		Subnet:   cfg.Coordinator.Subnet,
		Gateway:  cfg.Coordinator.Gateway,
	}, log)
	if err := host.Start(ctx); err != nil {
		log.Fatalw("hosted network bring-up failed", "error", err)
	}

	rot, err := sched.NewRotator(cfg.Animations, store, sched.RotatorOptions{
		Interval:         cfg.Scheduler.RotationInterval(),
		LockWindow:       cfg.Scheduler.LockWindow(),
		MaxLockExtension: cfg.Scheduler.MaxLockExtension(),
	}, log)
	if err != nil {
		log.Fatalw("invalid animation catalog", "error", err)
	}
	task.Go(ctx, log, "rotator", 0, rot.Run)

	bc := broadcast.NewBroadcaster(store, broadcast.BroadcasterOptions{
		Addr: cfg.Coordinator.BroadcastAddr,
		Port: cfg.Network.UDPPort,
	}, log)
	task.Go(ctx, log, "broadcaster", 0, bc.Run)

	if cfg.Coordinator.ServeTCP {
		srv := control.NewServer(store, control.ServerOptions{
			Addr: fmt.Sprintf(":%d", cfg.Network.TCPPort),
		}, log)
		task.Go(ctx, log, "request-server", 0, srv.Run)
	} else {
		log.Infow("request server disabled")
	}

	restarter := sched.NewRestarter(cfg.Coordinator.RestartAfter(), &processResetter{log: log}, nil, log)
	task.Go(ctx, log, "restarter", 0, restarter.Run)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Infow("coordinator stopping")
	cancel()
}

// newDriver selects the radio driver. Hardware ports supply their own
// radio.Driver implementation; the hosted build runs against the simulator.
func newDriver() radio.Driver {
	return &radio.Sim{}
}

// processResetter implements sched.Resetter for a hosted process: flush the
// logs and exit with the restart code so the process supervisor brings the
// binary back up.
type processResetter struct {
	log *zap.SugaredLogger
}

func (p *processResetter) Reset() error {
	_ = p.log.Sync()
	os.Exit(restartExitCode)
	return nil
}
