// Package main implements a Prism follower, a display device that joins the
// coordinator's wireless network and mirrors its animation state.
//
// A follower:
//   - Joins the coordinator's network and keeps the link alive
//   - Seeds its state with one TCP query after the first link-up
//   - Listens for the coordinator's UDP state broadcasts
//   - Applies received animation changes to its local state
//
// The local state.Store is the hand-off point to the rendering layer: the
// display engine reads the current animation from it on its own schedule.
//
// Usage:
//
//	./follower -config /etc/prism/prism.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dreamware/prism/internal/broadcast"
	"github.com/dreamware/prism/internal/config"
	"github.com/dreamware/prism/internal/control"
	"github.com/dreamware/prism/internal/link"
	"github.com/dreamware/prism/internal/logger"
	"github.com/dreamware/prism/internal/radio"
	"github.com/dreamware/prism/internal/state"
	"github.com/dreamware/prism/internal/task"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML configuration (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Followers are interchangeable; the instance ID only disambiguates logs
	// collected from several devices.
	log := logger.New(cfg.Log).Sugar().Named("follower").With("instance", uuid.NewString())
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := state.New()
	drv := newDriver(cfg.Network.SSID)

	sup := link.NewSupervisor(drv, link.SupervisorOptions{
		SSID:            cfg.Network.SSID,
		Password:        cfg.Network.Password,
		Attempts:        cfg.Follower.ConnectAttempts,
		AttemptInterval: cfg.Follower.AttemptInterval(),
		RecheckInterval: cfg.Follower.RecheckInterval(),
	}, log)

	client := control.NewClient(control.ClientOptions{
		Addr: fmt.Sprintf("%s:%d", cfg.Coordinator.IP, cfg.Network.TCPPort),
	}, log)

	// Seed the state with a direct query after the first link-up so the
	// display does not sit dark waiting for the next broadcast. Best-effort:
	// broadcasts carry the same state within a second anyway.
	if sup.Connect(ctx) {
		seedState(ctx, client, store, log)
	} else {
		log.Warnw("initial connect failed, maintenance loop keeps retrying")
	}
	task.Go(ctx, log, "link-maintain", 0, sup.Maintain)

	listener := broadcast.NewListener(store, broadcast.ListenerOptions{
		Port: cfg.Network.UDPPort,
	}, log)
	task.Go(ctx, log, "state-listener", 0, listener.Run)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Infow("follower stopping")
	cancel()
}

// seedState copies the coordinator's snapshot into the local store.
func seedState(ctx context.Context, client *control.Client, store *state.Store, log *zap.SugaredLogger) {
	doc, err := client.FetchState(ctx)
	if err != nil {
		log.Warnw("state seed failed", "error", err)
		return
	}
	if doc.Animation != nil {
		if err := store.Update(state.KeyAnimation, *doc.Animation); err != nil {
			log.Warnw("state seed rejected", "error", err)
			return
		}
		log.Infow("state seeded", "animation", *doc.Animation)
	}
	if doc.LastLocked != nil {
		ts := time.Unix(0, int64(*doc.LastLocked*float64(time.Second)))
		_ = store.Update(state.KeyLastLocked, ts)
	}
}

// newDriver selects the radio driver. Hardware ports supply their own
// radio.Driver implementation; the hosted build runs against the simulator,
// pre-seeded so the target network is visible to scans.
func newDriver(ssid string) radio.Driver {
	return &radio.Sim{Visible: []radio.Network{{SSID: ssid, Signal: -40, Channel: 6}}}
}
