package player

//
// session.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/model"
)

// Session is the single-slot playback state machine: at most one loaded
// episode bound to one exclusively-owned media sink. Starting a different
// episode tears the previous source down before attaching the new one.
//
// The loaded episode is a frozen snapshot taken at play time
// (snapshotAtPlay): later mutations of the episode record in the ledger do
// not leak into what the player shows. Identity with ledger records is by
// id only.
type Session struct {
	sink        Sink
	positions   PositionStore
	preferLocal bool

	mu             sync.Mutex
	snapshotAtPlay *model.Episode
	playing        bool
	position       time.Duration
	duration       time.Duration
}

func NewSession(i do.Injector) (*Session, error) {
	cfg := do.MustInvoke[*config.Config](i)

	s := &Session{
		sink:        do.MustInvoke[Sink](i),
		positions:   do.MustInvoke[PositionStore](i),
		preferLocal: cfg.Player.PreferLocal,
	}

	s.sink.SetObserver(s)

	return s, nil
}

// Play tear down whatever is playing and start episode. When preferLocal
// and the episode has a local file, the local file is played; otherwise
// the remote media locator (never an error on a missing local path). A
// sink rejection is swallowed into a loaded-but-paused state: playback
// start is not a user-blocking operation.
func (s *Session) Play(ctx context.Context, episode model.Episode, preferLocal bool) {
	logger := log.Ctx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.persistPositionLocked(ctx)

	if err := s.sink.Detach(ctx); err != nil {
		logger.Warn().Err(err).Msg("player: detach previous source failed")
	}

	src := episode.PlayableURL(preferLocal)

	logger.Info().Object("episode", &episode).Str("src", src).Msg("player: starting playback")

	snapshot := episode
	s.snapshotAtPlay = &snapshot
	s.position = 0
	s.duration = 0

	if err := s.sink.Attach(ctx, src); err != nil {
		// degrade to paused-but-loaded rather than propagate
		logger.Error().Err(err).Msg("player: sink rejected source")

		s.playing = false

		return
	}

	s.playing = true

	s.restorePositionLocked(ctx, episode.ID)
}

// PlayDefault is Play with the configured local-file preference.
func (s *Session) PlayDefault(ctx context.Context, episode model.Episode) {
	s.Play(ctx, episode, s.preferLocal)
}

// Pause stop playback keeping the loaded episode; no-op when idle.
func (s *Session) Pause(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshotAtPlay == nil {
		return
	}

	if err := s.sink.Pause(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("player: pause failed")
	}

	s.playing = false

	s.persistPositionLocked(ctx)
}

// Resume continue playback of the loaded episode; no-op when idle.
func (s *Session) Resume(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshotAtPlay == nil {
		return
	}

	if err := s.sink.Resume(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("player: resume failed")

		return
	}

	s.playing = true
}

// Seek set sink position directly; allowed both playing and paused.
func (s *Session) Seek(ctx context.Context, position time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshotAtPlay == nil {
		return
	}

	if err := s.sink.Seek(ctx, position); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("player: seek failed")

		return
	}

	s.position = position
}

// Reset tear down the sink and return to idle.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persistPositionLocked(ctx)

	if err := s.sink.Detach(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("player: detach failed")
	}

	s.snapshotAtPlay = nil
	s.playing = false
	s.position = 0
	s.duration = 0
}

// Current return the frozen play-time snapshot of the loaded episode.
func (s *Session) Current() (model.Episode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshotAtPlay == nil {
		return model.Episode{}, false
	}

	return *s.snapshotAtPlay, true
}

// IsPlaying report whether the given episode is the one currently
// playing. Identity is by id only.
func (s *Session) IsPlaying(episodeID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotAtPlay != nil && s.snapshotAtPlay.ID == episodeID && s.playing
}

func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.playing
}

func (s *Session) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.position
}

func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.duration
}

// Shutdown release the sink. Called by samber/do.
func (s *Session) Shutdown(ctx context.Context) error {
	s.Reset(ctx)

	return nil
}

//---------------------------------------------------------------------
// sink-originated callbacks

func (s *Session) SinkPosition(position time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.position = position
}

func (s *Session) SinkDuration(duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.duration = duration
}

// SinkEnded handle natural end of media: playback stops but the loaded
// episode stays, so the user can restart it; only Reset clears the slot.
func (s *Session) SinkEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playing = false
	s.position = 0

	if s.snapshotAtPlay != nil && s.positions != nil {
		// finished episodes start over next time
		if err := s.positions.ClearPosition(context.Background(), s.snapshotAtPlay.ID); err != nil {
			log.Logger.Debug().Err(err).Msg("player: clear stored position failed")
		}
	}
}

//---------------------------------------------------------------------

// persistPositionLocked store the position of the loaded episode; best
// effort, mutex must be held.
func (s *Session) persistPositionLocked(ctx context.Context) {
	if s.snapshotAtPlay == nil || s.positions == nil || s.position <= 0 {
		return
	}

	if err := s.positions.SavePosition(ctx, s.snapshotAtPlay.ID, s.position); err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("player: store position failed")
	}
}

// restorePositionLocked seek to the stored position, when any.
func (s *Session) restorePositionLocked(ctx context.Context, episodeID int64) {
	if s.positions == nil {
		return
	}

	pos, ok, err := s.positions.Position(ctx, episodeID)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("player: read stored position failed")

		return
	}

	if !ok || pos <= 0 {
		return
	}

	if err := s.sink.Seek(ctx, pos); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("player: restore position failed")

		return
	}

	s.position = pos
}
