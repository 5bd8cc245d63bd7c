package command

//
// subscriptions.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/url"
	"strings"

	"github.com/Synapsr/PodcastSync/internal/aerr"
	"github.com/Synapsr/PodcastSync/internal/model"
)

var (
	ErrEmptyName      = aerr.New("name can't be empty").WithTag(aerr.ValidationError)
	ErrEmptyRSSURL    = aerr.New("rss url can't be empty").WithTag(aerr.ValidationError)
	ErrEmptyOutputDir = aerr.New("output directory can't be empty").WithTag(aerr.ValidationError)
)

// CreateSubscriptionCmd carry user input for new subscription. Validation
// blocks submission before any remote call is made.
type CreateSubscriptionCmd struct {
	Name                  string                  `json:"name"`
	RSSURL                string                  `json:"rss_url"`
	CheckFrequencyMinutes int                     `json:"check_frequency_minutes"`
	OutputDirectory       string                  `json:"output_directory"`
	MaxItemsToCheck       int                     `json:"max_items_to_check"`
	PreferredQuality      model.QualityPreference `json:"preferred_quality"`
	MaxEpisodes           *int                    `json:"max_episodes"`
	FilenameFormat        string                  `json:"filename_format"`
}

func (c *CreateSubscriptionCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}

	if strings.TrimSpace(c.RSSURL) == "" {
		return ErrEmptyRSSURL
	}

	if u, err := url.Parse(c.RSSURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return aerr.ErrValidation.WithUserMsg("invalid rss url: %s", c.RSSURL)
	}

	if strings.TrimSpace(c.OutputDirectory) == "" {
		return ErrEmptyOutputDir
	}

	if c.CheckFrequencyMinutes <= 0 {
		return aerr.ErrValidation.WithUserMsg("check frequency must be positive")
	}

	if !model.IsValidQuality(c.PreferredQuality) {
		return aerr.ErrValidation.WithUserMsg("invalid quality preference: %s", c.PreferredQuality)
	}

	if c.MaxEpisodes != nil && *c.MaxEpisodes <= 0 {
		return aerr.ErrValidation.WithUserMsg("max episodes must be positive")
	}

	return nil
}

//---------------------------------------------------------------------

// UpdateSubscriptionCmd carry user edit of existing subscription; field
// semantics match CreateSubscriptionCmd.
type UpdateSubscriptionCmd struct {
	ID int64 `json:"-"`

	CreateSubscriptionCmd
}

func (c *UpdateSubscriptionCmd) Validate() error {
	if c.ID <= 0 {
		return aerr.ErrValidation.WithUserMsg("invalid subscription id")
	}

	return c.CreateSubscriptionCmd.Validate()
}
