//
// subscriptions.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package model

import (
	"time"

	"github.com/rs/zerolog"
)

// Subscription mirrors one backend subscription record. Counters are
// advisory: incremented locally on events and refreshed only by a full
// fetch, so they may drift from backend truth between refreshes.
type Subscription struct {
	ID                    int64             `json:"id"`
	Name                  string            `json:"name"`
	RSSURL                string            `json:"rss_url"`
	CheckFrequencyMinutes int               `json:"check_frequency_minutes"`
	OutputDirectory       string            `json:"output_directory"`
	MaxItemsToCheck       int               `json:"max_items_to_check"`
	Enabled               bool              `json:"enabled"`
	PreferredQuality      QualityPreference `json:"preferred_quality"`
	MaxEpisodes           *int              `json:"max_episodes"`
	FilenameFormat        string            `json:"filename_format"`
	LastCheckedAt         *time.Time        `json:"last_checked_at"`
	LastSuccessAt         *time.Time        `json:"last_success_at"`
	LastError             *string           `json:"last_error"`
	TotalEpisodesFound    int               `json:"total_episodes_found"`
	TotalDownloads        int               `json:"total_downloads"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

func (s *Subscription) MarshalZerologObject(event *zerolog.Event) {
	event.Int64("id", s.ID).
		Str("name", s.Name).
		Str("rss_url", s.RSSURL).
		Bool("enabled", s.Enabled).
		Int("total_episodes_found", s.TotalEpisodesFound).
		Int("total_downloads", s.TotalDownloads)
}
