//
// episodes.go
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
	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/gateway"
	"github.com/Synapsr/PodcastSync/internal/ledger"
	"github.com/Synapsr/PodcastSync/internal/model"
)

type EpisodeList struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	SubscriptionID int64
	Status         string
}

func (a *EpisodeList) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	episodes := do.MustInvoke[*ledger.Episodes](injector)

	switch {
	case a.SubscriptionID > 0:
		err = episodes.LoadForSubscription(ctx, a.SubscriptionID)
	case a.Status != "":
		status := model.DownloadStatus(a.Status)
		if !model.IsValidStatus(status) {
			return aerr.ErrValidation.WithUserMsg("invalid status: %s", a.Status)
		}

		err = episodes.LoadByStatus(ctx, status)
	default:
		err = episodes.LoadAll(ctx)
	}

	if err != nil {
		return fmt.Errorf("load episodes error: %w", err)
	}

	t := newTable(table.Row{"ID", "Sub", "Title", "Status", "Progress", "Size", "Published", "Error"})

	for _, ep := range episodes.Episodes() {
		t.AppendRow(table.Row{
			ep.ID, ep.SubscriptionID, ep.Title, ep.DownloadStatus,
			fmt.Sprintf("%d%%", ep.DownloadProgress),
			formatOptSize(ep.AudioSizeBytes), formatOptTime(ep.PubDate),
			formatOptStr(ep.DownloadError),
		})
	}

	t.Render()

	return nil
}

//-------------------------------------------------------------

type EpisodeRetry struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	ID int64
}

func (a *EpisodeRetry) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	episodes := do.MustInvoke[*ledger.Episodes](injector)
	if err := episodes.LoadAll(ctx); err != nil {
		return fmt.Errorf("load episodes error: %w", err)
	}

	if err := episodes.Retry(ctx, a.ID); err != nil {
		return fmt.Errorf("retry episode error: %w", err)
	}

	fmt.Printf("Retry of episode %d requested\n", a.ID)

	return nil
}

//-------------------------------------------------------------

type EpisodeDelete struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	ID int64
}

func (a *EpisodeDelete) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	episodes := do.MustInvoke[*ledger.Episodes](injector)
	if err := episodes.LoadAll(ctx); err != nil {
		return fmt.Errorf("load episodes error: %w", err)
	}

	if err := episodes.Delete(ctx, a.ID); err != nil {
		return fmt.Errorf("delete episode error: %w", err)
	}

	fmt.Printf("Deleted episode %d\n", a.ID)

	return nil
}

//-------------------------------------------------------------

type EpisodeStats struct {
	ConfigPath string
	DebugFlags config.DebugFlags
}

func (a *EpisodeStats) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	episodes := do.MustInvoke[*ledger.Episodes](injector)
	if err := episodes.LoadStats(ctx); err != nil {
		return fmt.Errorf("load stats error: %w", err)
	}

	stats, _ := episodes.Stats()

	t := newTable(table.Row{"Total", "Pending", "Downloading", "Completed", "Failed"})
	t.AppendRow(table.Row{stats.Total, stats.Pending, stats.Downloading, stats.Completed, stats.Failed})
	t.Render()

	return nil
}

//-------------------------------------------------------------

type EpisodeVerify struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	ID int64
}

func (a *EpisodeVerify) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	gw := do.MustInvoke[*gateway.Gateway](injector)

	exists, err := gw.VerifyEpisodeFile(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("verify episode file error: %w", err)
	}

	if exists {
		fmt.Printf("Episode %d: file present\n", a.ID)
	} else {
		fmt.Printf("Episode %d: file missing; status reverted\n", a.ID)
	}

	return nil
}

//-------------------------------------------------------------

type EpisodeProcessPending struct {
	ConfigPath string
	DebugFlags config.DebugFlags
}

func (a *EpisodeProcessPending) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	gw := do.MustInvoke[*gateway.Gateway](injector)

	resumed, err := gw.ProcessPendingEpisodes(ctx)
	if err != nil {
		return fmt.Errorf("process pending episodes error: %w", err)
	}

	fmt.Printf("Resumed %d pending downloads\n", resumed)

	return nil
}

//-------------------------------------------------------------

// EpisodeOpen asks the backend to reveal the downloaded file in the
// system file manager.
type EpisodeOpen struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	ID int64
}

func (a *EpisodeOpen) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	gw := do.MustInvoke[*gateway.Gateway](injector)

	episode, err := gw.GetEpisode(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("get episode error: %w", err)
	}

	if episode.DownloadPath == nil {
		return aerr.ErrValidation.WithUserMsg("episode %d has no downloaded file", a.ID)
	}

	if err := gw.OpenInFileManager(ctx, *episode.DownloadPath); err != nil {
		return fmt.Errorf("open in file manager error: %w", err)
	}

	return nil
}
