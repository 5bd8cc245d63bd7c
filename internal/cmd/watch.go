//
// watch.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/oklog/run"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/bridge"
	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/gateway"
	"github.com/Synapsr/PodcastSync/internal/ledger"
	"github.com/Synapsr/PodcastSync/internal/model"
	"github.com/Synapsr/PodcastSync/internal/server"
)

// Watch runs the long-lived reconciliation loop: initial state load,
// event feed consumption, periodic file verification and the optional
// management listener; stops on SIGINT/SIGTERM.
type Watch struct {
	ConfigPath string
	DebugFlags config.DebugFlags
}

func (w *Watch) Start(ctx context.Context) error {
	logger := log.Ctx(ctx)
	logger.Log().Msg("Starting watch mode...")

	injector, err := setup(ctx, w.ConfigPath, w.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	st, err := openStore(ctx, injector)
	if err != nil {
		return err
	}

	cfg := do.MustInvoke[*config.Config](injector)
	if cfg.Mgmt.Address != "" && cfg.Mgmt.EnableMetrics {
		st.RegisterMetrics()
	}

	loadInitialState(ctx, injector)

	eventBridge := do.MustInvoke[*bridge.Bridge](injector)
	eventBridge.OnUpdateAvailable(func(info model.UpdateInfo) {
		logger.Info().Msgf("Update available: %s -> %s (%s)",
			info.CurrentVersion, info.LatestVersion, info.ReleaseURL)
	})

	var group run.Group

	group.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	bctx, bcancel := context.WithCancel(ctx)
	group.Add(
		func() error { return eventBridge.Run(bctx) },
		func(error) { bcancel() },
	)

	verifier := do.MustInvoke[*bridge.Verifier](injector)
	vctx, vcancel := context.WithCancel(ctx)
	group.Add(
		func() error { return verifier.Run(vctx) },
		func(error) { vcancel() },
	)

	if cfg.Mgmt.Address != "" {
		mgmt := do.MustInvoke[*server.MgmtServer](injector)
		mctx, mcancel := context.WithCancel(ctx)
		group.Add(
			func() error {
				if err := mgmt.Start(mctx); err != nil {
					return err
				}

				<-mctx.Done()

				return nil
			},
			func(error) {
				mcancel()

				if err := mgmt.Shutdown(ctx); err != nil {
					logger.Warn().Err(err).Msg("mgmt server shutdown failed")
				}
			},
		)
	}

	err = group.Run()

	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		logger.Log().Msgf("Stopped on signal %s", sigErr.Signal)

		return nil
	}

	if err != nil {
		return fmt.Errorf("watch group error: %w", err)
	}

	return nil
}

// loadInitialState fetch the authoritative working sets and kick stuck
// downloads. Failures are logged, never fatal; the client starts with
// whatever state it can get and catches up from events.
func loadInitialState(ctx context.Context, injector do.Injector) {
	logger := log.Ctx(ctx)

	subscriptions := do.MustInvoke[*ledger.Subscriptions](injector)
	if err := subscriptions.LoadAll(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial subscription load failed")
	}

	episodes := do.MustInvoke[*ledger.Episodes](injector)
	if err := episodes.LoadAll(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial episode load failed")
	}

	if err := episodes.LoadStats(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial stats load failed")
	}

	gw := do.MustInvoke[*gateway.Gateway](injector)

	resumed, err := gw.ProcessPendingEpisodes(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("process pending episodes failed")
	} else if resumed > 0 {
		logger.Info().Msgf("resumed %d pending downloads", resumed)
	}
}
