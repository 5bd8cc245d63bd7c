package bridge

//
// bridge.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/event"
	"github.com/Synapsr/PodcastSync/internal/ledger"
	"github.com/Synapsr/PodcastSync/internal/model"
)

// EventSource is the live event feed from the backend daemon.
type EventSource interface {
	StreamEvents(ctx context.Context, path string, handler func(event.Event)) error
}

// UpdateNotifier receives update-available notifications; stale events
// everywhere else are absorbed by the ledgers.
type UpdateNotifier func(model.UpdateInfo)

// Bridge subscribes to the backend event feed and folds every incoming
// event into the ledgers. It is the only writer driven by the backend;
// user commands go the other way through the gateway.
type Bridge struct {
	source    EventSource
	eventPath string

	episodes      *ledger.Episodes
	subscriptions *ledger.Subscriptions

	onUpdate UpdateNotifier
	metrics  *metrics
}

func NewBridge(i do.Injector) (*Bridge, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &Bridge{
		source:        do.MustInvoke[EventSource](i),
		eventPath:     cfg.Backend.EventsPath,
		episodes:      do.MustInvoke[*ledger.Episodes](i),
		subscriptions: do.MustInvoke[*ledger.Subscriptions](i),
		metrics:       newMetrics(),
	}, nil
}

// OnUpdateAvailable install the update notification hook; must be set
// before Run.
func (b *Bridge) OnUpdateAvailable(fn UpdateNotifier) {
	b.onUpdate = fn
}

// Run consume the event feed until ctx is cancelled. Reconnects are
// handled by the source; Run returns only on cancellation or a
// permanent stream failure.
func (b *Bridge) Run(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("path", b.eventPath).Msg("bridge: starting event feed")

	return b.source.StreamEvents(ctx, b.eventPath, func(ev event.Event) {
		b.Handle(ctx, ev)
	})
}

// Handle fold one event into the ledgers.
func (b *Bridge) Handle(ctx context.Context, ev event.Event) {
	b.metrics.observe(ev.Kind())

	logger := log.Ctx(ctx)
	logger.Debug().Str("kind", string(ev.Kind())).Msg("bridge: event received")

	switch payload := ev.(type) {
	case event.DownloadStarted:
		b.episodes.ApplyProgress(ctx, payload.EpisodeID, 0)

	case event.DownloadProgress:
		b.episodes.ApplyProgress(ctx, payload.EpisodeID, payload.Progress)

	case event.DownloadCompleted:
		b.episodes.ApplyCompleted(ctx, payload.EpisodeID, payload.FilePath)
		b.subscriptions.IncrementDownloadCount(ctx, payload.SubscriptionID)

	case event.DownloadFailed:
		b.episodes.ApplyFailed(ctx, payload.EpisodeID, payload.Error)

	case event.EpisodeDiscovered:
		if b.episodes.ApplyDiscovered(ctx, payload.Episode) {
			b.subscriptions.IncrementEpisodeCount(ctx, payload.SubscriptionID)
		}

	case event.SubscriptionChecked:
		b.subscriptions.TouchLastChecked(ctx, payload.SubscriptionID, payload.Error)

	case event.UpdateAvailable:
		logger.Info().Str("version", payload.Info.LatestVersion).Msg("bridge: update available")

		if b.onUpdate != nil {
			b.onUpdate(payload.Info)
		}

	default:
		logger.Warn().Str("kind", string(ev.Kind())).Msg("bridge: unhandled event kind")
	}
}
