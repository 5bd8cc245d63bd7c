package cmd

//
// do.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/bridge"
	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/gateway"
	"github.com/Synapsr/PodcastSync/internal/ledger"
	"github.com/Synapsr/PodcastSync/internal/player"
	"github.com/Synapsr/PodcastSync/internal/server"
	"github.com/Synapsr/PodcastSync/internal/store"
)

func createInjector(ctx context.Context, cfg *config.Config) do.Injector {
	injector := do.New(
		gateway.Package,
		ledger.Package,
		player.Package,
		store.Package,
		bridge.Package,
		server.Package,
	)

	do.ProvideValue(injector, cfg)

	// interface bindings; the gateway backs both ledgers and the event feed
	do.Provide(injector, func(i do.Injector) (ledger.EpisodeBackend, error) {
		return do.MustInvoke[*gateway.Gateway](i), nil
	})
	do.Provide(injector, func(i do.Injector) (ledger.SubscriptionBackend, error) {
		return do.MustInvoke[*gateway.Gateway](i), nil
	})
	do.Provide(injector, func(i do.Injector) (bridge.EventSource, error) {
		return do.MustInvoke[*gateway.Gateway](i), nil
	})
	do.Provide(injector, func(i do.Injector) (bridge.FileVerifier, error) {
		return do.MustInvoke[*gateway.Gateway](i), nil
	})
	do.Provide(injector, func(i do.Injector) (player.Sink, error) {
		return do.MustInvoke[*player.MpvSink](i), nil
	})
	do.Provide(injector, func(i do.Injector) (player.PositionStore, error) {
		return do.MustInvoke[*store.Store](i), nil
	})

	logger := log.Ctx(ctx)
	logger.Debug().Msgf("Available services: %v", injector.ListProvidedServices())

	if cfg.DebugFlags.HasFlag(config.DebugDo) {
		explanation := do.ExplainInjector(injector)
		fmt.Println(explanation.String())
	}

	return injector
}
