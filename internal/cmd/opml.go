//
// opml.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/command"
	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/formats"
	"github.com/Synapsr/PodcastSync/internal/gateway"
	"github.com/Synapsr/PodcastSync/internal/ledger"
	"github.com/Synapsr/PodcastSync/internal/model"
)

// SubscriptionExport writes the subscription list as OPML, to a file or
// to stdout when no output path is given.
type SubscriptionExport struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	OutputFile string
}

func (a *SubscriptionExport) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	subscriptions := do.MustInvoke[*ledger.Subscriptions](injector)
	if err := subscriptions.LoadAll(ctx); err != nil {
		return fmt.Errorf("load subscriptions error: %w", err)
	}

	opml := formats.NewOPMLFromSubscriptions("PodcastSync subscriptions", subscriptions.Subscriptions())

	b, err := opml.XML()
	if err != nil {
		return fmt.Errorf("build opml error: %w", err)
	}

	if a.OutputFile == "" {
		fmt.Println(string(b))

		return nil
	}

	if err := os.WriteFile(a.OutputFile, b, 0o644); err != nil { //nolint:gosec,mnd
		return fmt.Errorf("write opml file error: %w", err)
	}

	fmt.Printf("Exported %d subscriptions to %s\n", len(opml.Body.Outlines), a.OutputFile)

	return nil
}

//-------------------------------------------------------------

// SubscriptionImport creates subscriptions for feeds found in an OPML
// file. Feeds already subscribed (same rss url) are skipped.
type SubscriptionImport struct {
	ConfigPath string
	DebugFlags config.DebugFlags

	InputFile       string
	OutputDirectory string
	Frequency       int
	Quality         string
}

func (a *SubscriptionImport) Start(ctx context.Context) error {
	injector, err := setup(ctx, a.ConfigPath, a.DebugFlags)
	if err != nil {
		return err
	}

	defer shutdownInjector(ctx, injector)

	b, err := os.ReadFile(a.InputFile)
	if err != nil {
		return fmt.Errorf("read opml file error: %w", err)
	}

	opml, err := formats.NewOPMLFromBytes(b)
	if err != nil {
		return fmt.Errorf("parse opml error: %w", err)
	}

	subscriptions := do.MustInvoke[*ledger.Subscriptions](injector)
	if err := subscriptions.LoadAll(ctx); err != nil {
		return fmt.Errorf("load subscriptions error: %w", err)
	}

	known := make(map[string]struct{})
	for _, sub := range subscriptions.Subscriptions() {
		known[sub.RSSURL] = struct{}{}
	}

	gw := do.MustInvoke[*gateway.Gateway](injector)
	created, skipped, failed := 0, 0, 0

	for _, feed := range opml.ExtractFeeds() {
		if _, ok := known[feed.URL]; ok {
			skipped++

			continue
		}

		name := feed.Title
		if name == "" {
			if title, err := gw.ResolveFeedTitle(ctx, feed.URL); err == nil {
				name = title
			}
		}

		cmd := &command.CreateSubscriptionCmd{
			Name:                  name,
			RSSURL:                feed.URL,
			OutputDirectory:       a.OutputDirectory,
			CheckFrequencyMinutes: a.Frequency,
			PreferredQuality:      model.QualityPreference(a.Quality),
		}

		if _, err := subscriptions.Create(ctx, cmd); err != nil {
			fmt.Printf("Import of %s failed: %s\n", feed.URL, err)

			failed++

			continue
		}

		created++
	}

	fmt.Printf("Imported %d subscriptions (%d already present, %d failed)\n", created, skipped, failed)

	return nil
}
