package model

//
// episodes.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"time"

	"github.com/rs/zerolog"
)

// Episode mirrors one backend episode record together with its download
// sub-record. GUID is the backend-stable natural key used for feed-level
// de-duplication; locally episodes are keyed by ID.
type Episode struct {
	ID             int64  `json:"id"`
	SubscriptionID int64  `json:"subscription_id"`
	GUID           string `json:"guid"`

	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	PubDate         *time.Time `json:"pub_date"`
	AudioURL        string     `json:"audio_url"`
	AudioType       *string    `json:"audio_type"`
	AudioSizeBytes  *int64     `json:"audio_size_bytes"`
	DurationSeconds *int       `json:"duration_seconds"`
	ImageURL        *string    `json:"image_url"`
	ProgramName     *string    `json:"program_name"`

	DownloadStatus      DownloadStatus `json:"download_status"`
	DownloadPath        *string        `json:"download_path"`
	DownloadProgress    int            `json:"download_progress"`
	DownloadStartedAt   *time.Time     `json:"download_started_at"`
	DownloadCompletedAt *time.Time     `json:"download_completed_at"`
	DownloadError       *string        `json:"download_error"`
	DownloadAttempts    int            `json:"download_attempts"`
	DiscoveredAt        time.Time      `json:"discovered_at"`
}

// PlayableURL return local file path when present and preferred, otherwise
// the remote media locator. Never fails on missing local path.
func (e *Episode) PlayableURL(preferLocal bool) string {
	if preferLocal && e.DownloadPath != nil && *e.DownloadPath != "" {
		return "file://" + *e.DownloadPath
	}

	return e.AudioURL
}

func (e *Episode) IsDownloaded() bool {
	return e.DownloadStatus == StatusCompleted && e.DownloadPath != nil
}

func (e *Episode) MarshalZerologObject(event *zerolog.Event) {
	event.Int64("id", e.ID).
		Int64("subscription_id", e.SubscriptionID).
		Str("guid", e.GUID).
		Str("title", e.Title).
		Str("status", string(e.DownloadStatus)).
		Int("progress", e.DownloadProgress)
}

// ------------------------------------------------------

// EpisodeStats is aggregate counts reported by the backend; adjusted
// locally on discovery the same way episode list is.
type EpisodeStats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Downloading int `json:"downloading"`
	Completed   int `json:"completed"`
	Failed      int `json:"failed"`
}
