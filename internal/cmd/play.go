//
// play.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/gateway"
	"github.com/Synapsr/PodcastSync/internal/player"
)

// Play fetch one episode and play it in the foreground until it ends or
// the user interrupts.
type Play struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	ID     int64
	Remote bool
}

func (a *Play) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	if _, err := openStore(ctx, injector); err != nil {
		return err
	}

	gw := do.MustInvoke[*gateway.Gateway](injector)

	episode, err := gw.GetEpisode(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("get episode error: %w", err)
	}

	cfg := do.MustInvoke[*config.Config](injector)
	preferLocal := cfg.Player.PreferLocal && !a.Remote

	session := do.MustInvoke[*player.Session](injector)
	session.Play(ctx, episode, preferLocal)

	if !session.Playing() {
		return fmt.Errorf("playback of episode %d did not start", a.ID) //nolint:err113
	}

	fmt.Printf("Playing: %s\n", episode.Title)

	return waitForPlayback(ctx, session)
}

// waitForPlayback block until the episode finishes or a signal arrives.
func waitForPlayback(ctx context.Context, session *player.Session) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(500 * time.Millisecond) //nolint:mnd
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			session.Reset(context.WithoutCancel(ctx))

			return nil
		case <-ticker.C:
			if !session.Playing() {
				return nil
			}
		}
	}
}
