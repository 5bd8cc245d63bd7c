//
// update.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cmd

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/gateway"
)

type UpdateCheck struct {
	ConfigPath string
	DebugFlags config.DebugFlags
}

func (a *UpdateCheck) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	gw := do.MustInvoke[*gateway.Gateway](injector)

	info, err := gw.CheckForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("check for update error: %w", err)
	}

	if !info.UpdateAvailable {
		fmt.Printf("Up to date (%s)\n", info.CurrentVersion)

		return nil
	}

	fmt.Printf("Update available: %s -> %s\n", info.CurrentVersion, info.LatestVersion)

	if info.ReleaseURL != "" {
		fmt.Printf("Release: %s\n", info.ReleaseURL)
	}

	if info.ReleaseNotes != nil && *info.ReleaseNotes != "" {
		fmt.Printf("\n%s\n", *info.ReleaseNotes)
	}

	return nil
}

//-------------------------------------------------------------

// FeedTitle resolve the display title of a feed before subscribing.
type FeedTitle struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	URL string
}

func (a *FeedTitle) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	gw := do.MustInvoke[*gateway.Gateway](injector)

	title, err := gw.ResolveFeedTitle(ctx, a.URL)
	if err != nil {
		return fmt.Errorf("resolve feed title error: %w", err)
	}

	fmt.Println(title)

	return nil
}
