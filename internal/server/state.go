//
// state.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package server

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/ledger"
	"github.com/Synapsr/PodcastSync/internal/model"
	"github.com/Synapsr/PodcastSync/internal/player"
)

type stateSnapshot struct {
	Subscriptions []model.Subscription `json:"subscriptions"`
	Episodes      []model.Episode      `json:"episodes"`
	Stats         *model.EpisodeStats  `json:"stats,omitempty"`

	NowPlaying *nowPlaying `json:"now_playing,omitempty"`
}

type nowPlaying struct {
	EpisodeID int64  `json:"episode_id"`
	Title     string `json:"title"`
	Playing   bool   `json:"playing"`
	Position  string `json:"position"`
	Duration  string `json:"duration"`
}

// newStateHandler expose the reconciled in-memory state as JSON, for
// debugging and external tooling.
func newStateHandler(injector do.Injector) http.HandlerFunc {
	episodes := do.MustInvoke[*ledger.Episodes](injector)
	subscriptions := do.MustInvoke[*ledger.Subscriptions](injector)
	session := do.MustInvoke[*player.Session](injector)

	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := stateSnapshot{
			Subscriptions: subscriptions.Subscriptions(),
			Episodes:      episodes.Episodes(),
		}

		if stats, ok := episodes.Stats(); ok {
			snapshot.Stats = &stats
		}

		if current, ok := session.Current(); ok {
			snapshot.NowPlaying = &nowPlaying{
				EpisodeID: current.ID,
				Title:     current.Title,
				Playing:   session.Playing(),
				Position:  session.Position().Round(time.Second).String(),
				Duration:  session.Duration().Round(time.Second).String(),
			}
		}

		render.JSON(w, r, snapshot)
	}
}
