//
// subscriptions.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/aerr"
	"github.com/Synapsr/PodcastSync/internal/command"
	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/gateway"
	"github.com/Synapsr/PodcastSync/internal/ledger"
	"github.com/Synapsr/PodcastSync/internal/model"
)

type SubscriptionList struct {
	ConfigPath string
	DebugFlags config.DebugFlags
}

func (a *SubscriptionList) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	subscriptions := do.MustInvoke[*ledger.Subscriptions](injector)
	if err := subscriptions.LoadAll(ctx); err != nil {
		return fmt.Errorf("load subscriptions error: %w", err)
	}

	t := newTable(table.Row{"ID", "Name", "Enabled", "Freq (min)", "Episodes", "Downloads", "Last check", "Last error"})

	for _, sub := range subscriptions.Subscriptions() {
		t.AppendRow(table.Row{
			sub.ID, sub.Name, formatEnabled(sub.Enabled), sub.CheckFrequencyMinutes,
			sub.TotalEpisodesFound, sub.TotalDownloads,
			formatOptTime(sub.LastCheckedAt), formatOptStr(sub.LastError),
		})
	}

	t.Render()

	return nil
}

//-------------------------------------------------------------

type SubscriptionAdd struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	Name            string
	RSSURL          string
	OutputDirectory string
	Frequency       int
	Quality         string
	MaxEpisodes     int
}

func (a *SubscriptionAdd) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	gw := do.MustInvoke[*gateway.Gateway](injector)

	name := a.Name
	if name == "" {
		// convenience: derive the name from the feed itself
		if title, err := gw.ResolveFeedTitle(ctx, a.RSSURL); err == nil {
			name = title
		}
	}

	outputDir := a.OutputDirectory
	if outputDir == "" {
		// backend-side directory picker; nil means the user cancelled
		selected, err := gw.SelectOutputDirectory(ctx)
		if err != nil {
			return fmt.Errorf("select output directory error: %w", err)
		}

		if selected == nil {
			return aerr.ErrValidation.WithUserMsg("no output directory selected")
		}

		outputDir = *selected
	}

	cmd := &command.CreateSubscriptionCmd{
		Name:                  name,
		RSSURL:                a.RSSURL,
		OutputDirectory:       outputDir,
		CheckFrequencyMinutes: a.Frequency,
		PreferredQuality:      model.QualityPreference(a.Quality),
	}

	if a.MaxEpisodes > 0 {
		cmd.MaxEpisodes = &a.MaxEpisodes
	}

	subscriptions := do.MustInvoke[*ledger.Subscriptions](injector)

	sub, err := subscriptions.Create(ctx, cmd)
	if err != nil {
		return fmt.Errorf("create subscription error: %w", err)
	}

	fmt.Printf("Created subscription %d: %s\n", sub.ID, sub.Name)

	return nil
}

//-------------------------------------------------------------

type SubscriptionUpdate struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	ID              int64
	Name            string
	RSSURL          string
	OutputDirectory string
	Frequency       int
	Quality         string
	MaxEpisodes     int
}

func (a *SubscriptionUpdate) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	subscriptions := do.MustInvoke[*ledger.Subscriptions](injector)
	if err := subscriptions.LoadAll(ctx); err != nil {
		return fmt.Errorf("load subscriptions error: %w", err)
	}

	current, ok := subscriptions.Get(a.ID)
	if !ok {
		return fmt.Errorf("unknown subscription: %d", a.ID) //nolint:err113
	}

	// unset flags keep the current values
	cmd := &command.UpdateSubscriptionCmd{
		ID: a.ID,
		CreateSubscriptionCmd: command.CreateSubscriptionCmd{
			Name:                  current.Name,
			RSSURL:                current.RSSURL,
			CheckFrequencyMinutes: current.CheckFrequencyMinutes,
			OutputDirectory:       current.OutputDirectory,
			MaxItemsToCheck:       current.MaxItemsToCheck,
			PreferredQuality:      current.PreferredQuality,
			MaxEpisodes:           current.MaxEpisodes,
			FilenameFormat:        current.FilenameFormat,
		},
	}

	if a.Name != "" {
		cmd.Name = a.Name
	}

	if a.RSSURL != "" {
		cmd.RSSURL = a.RSSURL
	}

	if a.OutputDirectory != "" {
		cmd.OutputDirectory = a.OutputDirectory
	}

	if a.Frequency > 0 {
		cmd.CheckFrequencyMinutes = a.Frequency
	}

	if a.Quality != "" {
		cmd.PreferredQuality = model.QualityPreference(a.Quality)
	}

	if a.MaxEpisodes > 0 {
		cmd.MaxEpisodes = &a.MaxEpisodes
	}

	sub, err := subscriptions.Update(ctx, cmd)
	if err != nil {
		return fmt.Errorf("update subscription error: %w", err)
	}

	fmt.Printf("Updated subscription %d: %s\n", sub.ID, sub.Name)

	return nil
}

//-------------------------------------------------------------

type SubscriptionDelete struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	ID int64
}

func (a *SubscriptionDelete) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	subscriptions := do.MustInvoke[*ledger.Subscriptions](injector)
	if err := subscriptions.LoadAll(ctx); err != nil {
		return fmt.Errorf("load subscriptions error: %w", err)
	}

	if err := subscriptions.Delete(ctx, a.ID); err != nil {
		return fmt.Errorf("delete subscription error: %w", err)
	}

	fmt.Printf("Deleted subscription %d\n", a.ID)

	return nil
}

//-------------------------------------------------------------

type SubscriptionToggle struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	ID      int64
	Enabled bool
}

func (a *SubscriptionToggle) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	subscriptions := do.MustInvoke[*ledger.Subscriptions](injector)
	if err := subscriptions.LoadAll(ctx); err != nil {
		return fmt.Errorf("load subscriptions error: %w", err)
	}

	if err := subscriptions.ToggleEnabled(ctx, a.ID, a.Enabled); err != nil {
		return fmt.Errorf("toggle subscription error: %w", err)
	}

	fmt.Printf("Subscription %d enabled=%v\n", a.ID, a.Enabled)

	return nil
}

//-------------------------------------------------------------

type SubscriptionCheck struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	ID int64
}

func (a *SubscriptionCheck) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	gw := do.MustInvoke[*gateway.Gateway](injector)
	if err := gw.CheckSubscriptionNow(ctx, a.ID); err != nil {
		return fmt.Errorf("check subscription error: %w", err)
	}

	fmt.Printf("Check of subscription %d requested\n", a.ID)

	return nil
}
