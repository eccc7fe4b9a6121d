// SPDX-License-Identifier: AGPL-3.0-or-later
// minutemodem - HF WALE waveform codec, DTE session, and eParl consensus core
// Copyright (C) 2023-2026 Jacob McSwain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package cmd wires config, logging, metrics/pprof/tracing, the DTE
// listener, and the eParl consensus engine into the minutemodemd process.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/USA-RedDragon/configulator"
	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/HeroesLament/minutemodem-sub001/internal/config"
	"github.com/HeroesLament/minutemodem-sub001/internal/consensus"
	"github.com/HeroesLament/minutemodem-sub001/internal/consensus/kvstate"
	"github.com/HeroesLament/minutemodem-sub001/internal/consensus/members"
	"github.com/HeroesLament/minutemodem-sub001/internal/dte"
	"github.com/HeroesLament/minutemodem-sub001/internal/kv"
	"github.com/HeroesLament/minutemodem-sub001/internal/logging"
	"github.com/HeroesLament/minutemodem-sub001/internal/metrics"
	"github.com/HeroesLament/minutemodem-sub001/internal/modem"
	"github.com/HeroesLament/minutemodem-sub001/internal/pprof"
	"github.com/HeroesLament/minutemodem-sub001/internal/pubsub"
	"github.com/HeroesLament/minutemodem-sub001/internal/store"
	"github.com/HeroesLament/minutemodem-sub001/internal/tracing"
	"github.com/HeroesLament/minutemodem-sub001/internal/wale"
)

const shutdownTimeout = 10 * time.Second

// NewCommand builds the minutemodemd root command. Running it with no
// subcommand is equivalent to "serve": it starts the DTE listener and
// consensus engine and blocks until shutdown.
func NewCommand(version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "minutemodemd",
		Version: fmt.Sprintf("%s - %s", version, commit),
		Annotations: map[string]string{
			"version": version,
			"commit":  commit,
		},
		RunE:              runRoot,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the DTE listener and consensus engine (default if no subcommand is given)",
		RunE:  runRoot,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Printf("minutemodemd %s (%s)\n", version, commit)
			return nil
		},
	})
	return cmd
}

func runRoot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	fmt.Printf("minutemodemd - %s (%s)\n", cmd.Annotations["version"], cmd.Annotations["commit"])

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanup, err := tracing.Setup(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup tracing: %w", err)
	}
	defer func() {
		if err := cleanup(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	scheduler, err := setupScheduler()
	if err != nil {
		return err
	}

	startBackgroundServices(cfg, log)

	sys, err := newSystem(ctx, cfg, log)
	if err != nil {
		return err
	}

	if err := scheduleMembershipReport(scheduler, sys.members, log); err != nil {
		return err
	}
	scheduler.Start()

	if err := sys.start(ctx); err != nil {
		return err
	}

	log.Info("minutemodemd ready", "replica", cfg.Consensus.ReplicaID, "dte", fmt.Sprintf("%s:%d", cfg.DTE.Bind, cfg.DTE.Port))

	setupShutdownHandlers(ctx, scheduler, sys, log)

	return nil
}

// loadConfig loads the configuration via configulator, without
// validating it yet (runRoot validates explicitly so it can report a
// clean error before anything else starts).
func loadConfig() (*config.Config, error) {
	c := configulator.New[config.Config]()
	cfg, err := c.LoadWithoutValidation()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// startBackgroundServices starts the metrics and pprof HTTP servers.
func startBackgroundServices(cfg *config.Config, log *slog.Logger) {
	go func() {
		if err := metrics.CreateMetricsServer(cfg); err != nil {
			log.Error("metrics server stopped", "error", err)
		}
	}()
	go func() {
		if err := pprof.CreatePProfServer(cfg); err != nil {
			log.Error("pprof server stopped", "error", err)
		}
	}()
}

// system holds every long-lived component runRoot wires together, so
// startup and shutdown can each be expressed as one pass over it.
type system struct {
	cfg     *config.Config
	log     *slog.Logger
	kv      kv.KV
	bus     pubsub.PubSub
	members *members.Registry
	engine  *consensus.Engine
	state   *kvstate.Store
	dteLn   *dte.Listener
}

func newSystem(ctx context.Context, cfg *config.Config, log *slog.Logger) (*system, error) {
	kvStore, err := kv.MakeKV(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to key-value store: %w", err)
	}

	bus, err := pubsub.MakePubSub(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pubsub: %w", err)
	}

	db, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open instance store: %w", err)
	}
	instanceStore := store.New(db)

	replicas := consensus.NewStaticReplicaSet(cfg.Consensus.ReplicaID, cfg.Consensus.Peers)
	state := kvstate.NewStore(log)
	transport := consensus.NewPubSubTransport(bus, log)
	notifier := newLogNotifier(log)

	engine := consensus.NewEngine(replicas, state, transport, instanceStore, notifier, log)

	saved, err := instanceStore.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to warm-start instance store: %w", err)
	}
	engine.LoadInstances(saved)

	registry := members.New(ctx, kvStore, cfg.Consensus.ReplicaID, log)

	waveform := wale.WaveformFast
	ctl := modem.NewLoopback(log, waveform)

	dteLn, err := dte.NewListener(fmt.Sprintf("%s:%d", cfg.DTE.Bind, cfg.DTE.Port), ctl, dte.SessionOptions{
		Rig:    cfg.DTE.Rig,
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start DTE listener: %w", err)
	}

	return &system{
		cfg:     cfg,
		log:     log,
		kv:      kvStore,
		bus:     bus,
		members: registry,
		engine:  engine,
		state:   state,
		dteLn:   dteLn,
	}, nil
}

func (s *system) start(ctx context.Context) error {
	s.engine.Start(ctx)
	go consensus.Listen(ctx, s.bus, s.cfg.Consensus.ReplicaID, s.engine, s.log)
	go func() {
		if err := s.dteLn.Serve(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("dte listener stopped", "error", err)
		}
	}()
	return nil
}

// closeResources tears down the DTE listener, membership registration,
// and bus/KV connections in parallel, returning the first error (if any)
// of each independent teardown.
func (s *system) closeResources(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.dteLn.Close(); err != nil {
			return fmt.Errorf("dte listener: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		s.members.Deregister(ctx)
		return nil
	})
	g.Go(func() error {
		if err := s.bus.Close(); err != nil {
			return fmt.Errorf("pubsub: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.kv.Close(); err != nil {
			return fmt.Errorf("kv: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// setupShutdownHandlers blocks until SIGINT/SIGTERM/SIGQUIT/SIGHUP, then
// performs a bounded, parallel shutdown of every subsystem: the scheduler
// and the system's resources stop concurrently, each reporting a typed
// error rather than only logging inline.
func setupShutdownHandlers(ctx context.Context, scheduler gocron.Scheduler, sys *system, log *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)

	sig := <-sigCh
	log.Error("shutting down due to signal", "signal", sig)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := scheduler.StopJobs(); err != nil {
			return fmt.Errorf("scheduler stop jobs: %w", err)
		}
		if err := scheduler.Shutdown(); err != nil {
			return fmt.Errorf("scheduler shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sys.closeResources(gctx)
	})

	c := make(chan error, 1)
	go func() { c <- g.Wait() }()

	select {
	case err := <-c:
		if err != nil {
			log.Error("subsystem shutdown reported errors", "error", err)
			os.Exit(1)
		}
		log.Info("all subsystems stopped, shutting down gracefully")
		os.Exit(0)
	case <-time.After(shutdownTimeout):
		log.Error("shutdown timed out, forcing exit")
		os.Exit(1)
	}
}
