package store

//
// store.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/aerr"
)

//go:embed "migrations/*.sql"
var embedMigrations embed.FS

// Store is the local sqlite state database: playback positions and
// client settings. All reconciliation state lives in memory; the store
// only keeps what must survive a restart.
type Store struct {
	db *sqlx.DB
}

func NewStore(_ do.Injector) (*Store, error) {
	return &Store{}, nil
}

func (s *Store) Open(ctx context.Context, connstr string) error {
	var err error

	connstr, err = prepareSqliteConnstr(connstr)
	if err != nil {
		return err
	}

	logger := log.Ctx(ctx).With().Str("mod", "store").Logger()
	logger.Info().Msgf("opening state database %q", connstr)

	s.db, err = sqlx.Open("sqlite3", connstr)
	if err != nil {
		return aerr.Wrapf(err, "open state database failed").WithTag(aerr.InternalError).WithMeta("connstr", connstr)
	}

	s.db.SetConnMaxIdleTime(30 * time.Second) //nolint:mnd
	s.db.SetMaxIdleConns(1)
	s.db.SetMaxOpenConns(1)

	if _, err := s.db.ExecContext(ctx, "PRAGMA temp_store = MEMORY;"); err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "execute onConnect script failed")
	}

	if err := s.db.PingContext(ctx); err != nil {
		return aerr.Wrapf(err, "ping state database failed").WithTag(aerr.InternalError)
	}

	return nil
}

func (s *Store) RegisterMetrics() {
	prometheus.DefaultRegisterer.MustRegister(collectors.NewDBStatsCollector(s.db.DB, "state"))
}

func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		panic(err)
	}

	if err := goose.UpContext(ctx, s.db.DB, "migrations"); err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "", "migrate state database up failed")
	}

	return nil
}

func (s *Store) Maintenance(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"VACUUM;"+
			"PRAGMA optimize;",
	)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "execute maintenance script failed")
	}

	return nil
}

// Shutdown close state database. Called by samber/do.
func (s *Store) Shutdown(ctx context.Context) error {
	if s.db == nil {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("run optimize on close failed")
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close state db error: %w", err)
	}

	log.Ctx(ctx).Debug().Str("mod", "store").Msg("state db closed")

	return nil
}

//------------------------------------------------------------------------------

func prepareSqliteConnstr(connstr string) (string, error) {
	if connstr == "" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid (empty) state database path")
	}

	if connstr == ":memory:" {
		return ":memory:?_fk=ON", nil
	}

	parsed, err := url.Parse(connstr)
	if err != nil {
		return "", aerr.ApplyFor(aerr.ErrInvalidConf, err, "", "failed to parse state database path")
	}

	if parsed.Path == "" && parsed.Opaque == "" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid state database path")
	}

	query := parsed.Query()
	if !query.Has("_fk") && !query.Has("__foreign_keys") {
		query.Set("_fk", "ON")
	}

	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
