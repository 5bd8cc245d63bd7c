package cmd

//
// common.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/store"
)

// setup load configuration and build the injector; every command starts
// here.
func setup(ctx context.Context, configPath string, debugFlags config.DebugFlags) (do.Injector, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration error: %w", err)
	}

	cfg.DebugFlags = debugFlags

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return createInjector(ctx, cfg), nil
}

// openStore open and migrate the local state database.
func openStore(ctx context.Context, injector do.Injector) (*store.Store, error) {
	cfg := do.MustInvoke[*config.Config](injector)

	st := do.MustInvoke[*store.Store](injector)
	if err := st.Open(ctx, cfg.StateDB); err != nil {
		return nil, fmt.Errorf("open state database error: %w", err)
	}

	if err := st.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate state database error: %w", err)
	}

	return st, nil
}

func shutdownInjector(ctx context.Context, injector do.Injector) {
	if report := injector.ShutdownWithContext(ctx); report != nil {
		log.Ctx(ctx).Debug().Msgf("shutdown: %s", report)
	}
}

//-------------------------------------------------------------

func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)

	return t
}

func formatOptTime(ts *time.Time) string {
	if ts == nil {
		return "-"
	}

	return humanize.Time(*ts)
}

func formatOptStr(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}

	return *s
}

func formatOptSize(size *int64) string {
	if size == nil {
		return "-"
	}

	return humanize.IBytes(uint64(*size)) //nolint:gosec
}

func formatEnabled(enabled bool) string {
	if enabled {
		return "yes"
	}

	return "no"
}
