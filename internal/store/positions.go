package store

//
// positions.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Synapsr/PodcastSync/internal/aerr"
)

// Position return the stored playback position for episode, when any.
func (s *Store) Position(ctx context.Context, episodeID int64) (time.Duration, bool, error) {
	var ms int64

	err := s.db.GetContext(ctx, &ms,
		"SELECT position_ms FROM playback_positions WHERE episode_id=?", episodeID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		return 0, false, aerr.ApplyFor(aerr.ErrDatabase, err, "get playback position failed").
			WithMeta("episode_id", episodeID)
	}

	return time.Duration(ms) * time.Millisecond, true, nil
}

func (s *Store) SavePosition(ctx context.Context, episodeID int64, position time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO playback_positions (episode_id, position_ms, updated_at) "+
			"VALUES (?, ?, CURRENT_TIMESTAMP) "+
			"ON CONFLICT(episode_id) DO UPDATE "+
			"SET position_ms=excluded.position_ms, updated_at=excluded.updated_at",
		episodeID, position.Milliseconds())
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "save playback position failed").
			WithMeta("episode_id", episodeID)
	}

	return nil
}

func (s *Store) ClearPosition(ctx context.Context, episodeID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM playback_positions WHERE episode_id=?", episodeID)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "clear playback position failed").
			WithMeta("episode_id", episodeID)
	}

	return nil
}
