package bridge

//
// verifier.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/ledger"
)

// FileVerifier asks the backend to re-check downloaded files on disk and
// returns ids of episodes whose file went missing.
type FileVerifier interface {
	VerifySubscriptionFiles(ctx context.Context, subscriptionID int64) ([]int64, error)
}

// Verifier periodically re-checks downloaded files against the
// filesystem. Files deleted outside the application are detected here
// and the episode collection is reloaded to pick up the reverted
// statuses.
type Verifier struct {
	verifier FileVerifier
	interval time.Duration

	episodes      *ledger.Episodes
	subscriptions *ledger.Subscriptions
}

func NewVerifier(i do.Injector) (*Verifier, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &Verifier{
		verifier:      do.MustInvoke[FileVerifier](i),
		interval:      time.Duration(cfg.VerifyIntervalMinutes) * time.Minute,
		episodes:      do.MustInvoke[*ledger.Episodes](i),
		subscriptions: do.MustInvoke[*ledger.Subscriptions](i),
	}, nil
}

// Run verify files on the configured interval until ctx is cancelled.
func (v *Verifier) Run(ctx context.Context) error {
	logger := log.Ctx(ctx)
	logger.Info().Dur("interval", v.interval).Msg("verifier: starting file verification task")

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			v.VerifyOnce(ctx)
		}
	}
}

// VerifyOnce check all subscriptions once. Backend failures are logged
// and skipped; verification is advisory and must never break the client.
func (v *Verifier) VerifyOnce(ctx context.Context) {
	logger := log.Ctx(ctx)

	var invalidated int

	for _, sub := range v.subscriptions.Subscriptions() {
		missing, err := v.verifier.VerifySubscriptionFiles(ctx, sub.ID)
		if err != nil {
			logger.Warn().Err(err).Int64("subscription_id", sub.ID).
				Msg("verifier: verify files failed")

			continue
		}

		invalidated += len(missing)
	}

	if invalidated == 0 {
		return
	}

	logger.Info().Int("invalidated", invalidated).Msg("verifier: missing files detected, reloading episodes")

	if err := v.episodes.LoadAll(ctx); err != nil {
		logger.Warn().Err(err).Msg("verifier: reload episodes failed")
	}
}
