package event

//
// events.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/rs/zerolog"

	"github.com/Synapsr/PodcastSync/internal/model"
)

// Kind is name of one backend event stream message.
type Kind string

const (
	KindDownloadStarted     Kind = "download-started"
	KindDownloadProgress    Kind = "download-progress"
	KindDownloadCompleted   Kind = "download-completed"
	KindDownloadFailed      Kind = "download-failed"
	KindEpisodeDiscovered   Kind = "episode-discovered"
	KindSubscriptionChecked Kind = "subscription-checked"
	KindUpdateAvailable     Kind = "update-available"
)

// Event is closed union of backend event payloads. Payloads are validated
// once, at the decode boundary; handlers receive exhaustively-typed values.
type Event interface {
	Kind() Kind
}

// DownloadStarted - backend began downloading an episode.
type DownloadStarted struct {
	EpisodeID      int64 `json:"episode_id"`
	SubscriptionID int64 `json:"subscription_id"`
}

func (DownloadStarted) Kind() Kind { return KindDownloadStarted }

// DownloadProgress - periodic progress report for a running download.
type DownloadProgress struct {
	EpisodeID  int64    `json:"episode_id"`
	Downloaded int64    `json:"downloaded"`
	Total      *int64   `json:"total"`
	Progress   int      `json:"progress"`
	Speed      *float64 `json:"speed"`
}

func (DownloadProgress) Kind() Kind { return KindDownloadProgress }

func (e DownloadProgress) MarshalZerologObject(ev *zerolog.Event) {
	ev.Int64("episode_id", e.EpisodeID).Int("progress", e.Progress)
}

// DownloadCompleted - download finished and the file was written.
type DownloadCompleted struct {
	EpisodeID      int64  `json:"episode_id"`
	SubscriptionID int64  `json:"subscription_id"`
	FilePath       string `json:"file_path"`
}

func (DownloadCompleted) Kind() Kind { return KindDownloadCompleted }

// DownloadFailed - download gave up; Error is display-ready text.
type DownloadFailed struct {
	EpisodeID int64  `json:"episode_id"`
	Error     string `json:"error"`
}

func (DownloadFailed) Kind() Kind { return KindDownloadFailed }

// EpisodeDiscovered - feed check found a new episode; carries full record.
type EpisodeDiscovered struct {
	SubscriptionID int64         `json:"subscription_id"`
	Episode        model.Episode `json:"episode"`
}

func (EpisodeDiscovered) Kind() Kind { return KindEpisodeDiscovered }

// SubscriptionChecked - feed check finished (successfully or not).
type SubscriptionChecked struct {
	SubscriptionID   int64   `json:"subscription_id"`
	NewEpisodesCount int     `json:"new_episodes_count"`
	Error            *string `json:"error"`
}

func (SubscriptionChecked) Kind() Kind { return KindSubscriptionChecked }

// UpdateAvailable - fire-once notification about a new application release.
type UpdateAvailable struct {
	Info model.UpdateInfo `json:"info"`
}

func (UpdateAvailable) Kind() Kind { return KindUpdateAvailable }
