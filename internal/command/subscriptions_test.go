package command

//
// subscriptions_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"testing"

	"github.com/Synapsr/PodcastSync/internal/aerr"
	"github.com/Synapsr/PodcastSync/internal/assert"
	"github.com/Synapsr/PodcastSync/internal/model"
)

func validCreateCmd() CreateSubscriptionCmd {
	return CreateSubscriptionCmd{
		Name:                  "test feed",
		RSSURL:                "https://example.com/feed.xml",
		CheckFrequencyMinutes: 60,
		OutputDirectory:       "/downloads",
		MaxItemsToCheck:       10,
		PreferredQuality:      model.QualityEnclosure,
		FilenameFormat:        "{title}",
	}
}

func TestCreateSubscriptionCmdValidate(t *testing.T) {
	cmd := validCreateCmd()
	assert.NoErr(t, cmd.Validate())
}

func TestCreateSubscriptionCmdRequiredFields(t *testing.T) {
	cmd := validCreateCmd()
	cmd.Name = "  "
	assert.ErrSpec(t, cmd.Validate(), ErrEmptyName)

	cmd = validCreateCmd()
	cmd.RSSURL = ""
	assert.ErrSpec(t, cmd.Validate(), ErrEmptyRSSURL)

	cmd = validCreateCmd()
	cmd.RSSURL = "ftp://example.com/feed"
	assert.True(t, aerr.HasTag(cmd.Validate(), aerr.ValidationError))

	cmd = validCreateCmd()
	cmd.OutputDirectory = ""
	assert.ErrSpec(t, cmd.Validate(), ErrEmptyOutputDir)

	cmd = validCreateCmd()
	cmd.CheckFrequencyMinutes = 0
	assert.Err(t, cmd.Validate())

	cmd = validCreateCmd()
	cmd.PreferredQuality = "ogg"
	assert.Err(t, cmd.Validate())
}

func TestUpdateSubscriptionCmdValidate(t *testing.T) {
	cmd := UpdateSubscriptionCmd{ID: 0, CreateSubscriptionCmd: validCreateCmd()}
	assert.Err(t, cmd.Validate())

	cmd.ID = 3
	assert.NoErr(t, cmd.Validate())
}
