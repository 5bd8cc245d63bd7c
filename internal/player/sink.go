package player

//
// sink.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"time"
)

// Sink is the exclusively-owned playback resource rendering one audio
// source at a time. The playback session is its only client; no other
// component may attach a source.
type Sink interface {
	// Attach load src and start playback. The previous source must be
	// detached first.
	Attach(ctx context.Context, src string) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Seek(ctx context.Context, position time.Duration) error
	// Detach stop playback and unload the current source; idempotent.
	Detach(ctx context.Context) error

	// SetObserver register the single consumer of sink-originated
	// callbacks. Must be called before Attach.
	SetObserver(obs SinkObserver)
}

// SinkObserver receive sink-originated callbacks: position/duration
// reports and natural end of media.
type SinkObserver interface {
	SinkPosition(position time.Duration)
	SinkDuration(duration time.Duration)
	SinkEnded()
}

// PositionStore persist playback positions between runs.
type PositionStore interface {
	Position(ctx context.Context, episodeID int64) (time.Duration, bool, error)
	SavePosition(ctx context.Context, episodeID int64, position time.Duration) error
	ClearPosition(ctx context.Context, episodeID int64) error
}
