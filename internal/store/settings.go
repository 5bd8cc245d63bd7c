package store

//
// settings.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Synapsr/PodcastSync/internal/aerr"
)

// Setting return stored client setting for key, when any.
func (s *Store) Setting(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.db.GetContext(ctx, &value,
		"SELECT value FROM client_settings WHERE key=?", key)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, aerr.ApplyFor(aerr.ErrDatabase, err, "get setting failed").WithMeta("key", key)
	}

	return value, true, nil
}

func (s *Store) SaveSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO client_settings (key, value, updated_at) "+
			"VALUES (?, ?, CURRENT_TIMESTAMP) "+
			"ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at",
		key, value)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "save setting failed").WithMeta("key", key)
	}

	return nil
}

func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM client_settings WHERE key=?", key)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "delete setting failed").WithMeta("key", key)
	}

	return nil
}
