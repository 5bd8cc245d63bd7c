package ledger

//
// episodes.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/model"
)

// EpisodeBackend is the slice of the command gateway the episode ledger
// round-trips through.
type EpisodeBackend interface {
	ListEpisodes(ctx context.Context) ([]model.Episode, error)
	ListEpisodesBySubscription(ctx context.Context, subscriptionID int64) ([]model.Episode, error)
	ListEpisodesByStatus(ctx context.Context, status model.DownloadStatus) ([]model.Episode, error)
	GetEpisodeStats(ctx context.Context) (model.EpisodeStats, error)
	RetryEpisode(ctx context.Context, id int64) error
	DeleteEpisode(ctx context.Context, id int64) error
}

// Episodes owns the authoritative in-memory episode collection. It merges
// two independent writers: optimistic mutations from user commands and
// asynchronous backend events. Events are applied in arrival order; the
// backend is the single source of truth per episode id, so last writer
// wins, with one explicit precedence rule: a completed episode never
// regresses to downloading on a stray late progress event.
//
// Ordering is most-recently-discovered-first; that is a user-facing
// contract, not an accident of insertion.
type Episodes struct {
	backend EpisodeBackend

	mu       sync.RWMutex
	episodes []model.Episode
	stats    *model.EpisodeStats
}

func NewEpisodesLedger(i do.Injector) (*Episodes, error) {
	return &Episodes{
		backend: do.MustInvoke[EpisodeBackend](i),
	}, nil
}

// LoadAll replace the whole working set with an authoritative fetch.
// On fetch error the previous working set is left untouched.
func (e *Episodes) LoadAll(ctx context.Context) error {
	episodes, err := e.backend.ListEpisodes(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.episodes = episodes
	e.mu.Unlock()

	return nil
}

// LoadForSubscription replace the working set with episodes of one
// subscription.
func (e *Episodes) LoadForSubscription(ctx context.Context, subscriptionID int64) error {
	episodes, err := e.backend.ListEpisodesBySubscription(ctx, subscriptionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.episodes = episodes
	e.mu.Unlock()

	return nil
}

// LoadByStatus replace the working set with episodes in one download state.
func (e *Episodes) LoadByStatus(ctx context.Context, status model.DownloadStatus) error {
	episodes, err := e.backend.ListEpisodesByStatus(ctx, status)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.episodes = episodes
	e.mu.Unlock()

	return nil
}

// LoadStats refresh aggregate counts from the backend.
func (e *Episodes) LoadStats(ctx context.Context) error {
	stats, err := e.backend.GetEpisodeStats(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.stats = &stats
	e.mu.Unlock()

	return nil
}

// ApplyDiscovered insert-or-ignore keyed by episode id. Discovery events
// may be delivered more than once or race a full list fetch; a known id is
// a silent no-op. New episodes are prepended. Return true when inserted.
func (e *Episodes) ApplyDiscovered(ctx context.Context, episode model.Episode) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexOf(episode.ID) >= 0 {
		log.Ctx(ctx).Debug().Int64("episode_id", episode.ID).
			Msg("ledger: discovered episode already known; ignoring")

		return false
	}

	e.episodes = append([]model.Episode{episode}, e.episodes...)

	if e.stats != nil {
		e.stats.Total++
		e.stats.Pending++
	}

	return true
}

// ApplyProgress set status to downloading with the reported progress.
// Unknown ids are ignored (stale reference); a completed episode is never
// regressed by a late progress event.
func (e *Episodes) ApplyProgress(ctx context.Context, id int64, progress int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		logStaleRef(ctx, "progress", id)

		return
	}

	if e.episodes[idx].DownloadStatus == model.StatusCompleted {
		log.Ctx(ctx).Debug().Int64("episode_id", id).
			Msg("ledger: late progress for completed episode; ignoring")

		return
	}

	e.episodes[idx].DownloadStatus = model.StatusDownloading
	e.episodes[idx].DownloadProgress = progress
}

// ApplyCompleted mark episode completed: progress forced to 100, local
// path recorded, error cleared.
func (e *Episodes) ApplyCompleted(ctx context.Context, id int64, path string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		logStaleRef(ctx, "completed", id)

		return
	}

	e.episodes[idx].DownloadStatus = model.StatusCompleted
	e.episodes[idx].DownloadProgress = 100
	e.episodes[idx].DownloadPath = &path
	e.episodes[idx].DownloadError = nil
}

// ApplyFailed mark episode failed with display-ready error text; progress
// stays at the last observed value.
func (e *Episodes) ApplyFailed(ctx context.Context, id int64, errorText string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		logStaleRef(ctx, "failed", id)

		return
	}

	e.episodes[idx].DownloadStatus = model.StatusFailed
	e.episodes[idx].DownloadError = &errorText
}

// Retry ask the backend to retry the download, then optimistically flip
// the local record to pending so the UI reflects intent before any
// corroborating event arrives. On backend failure nothing is mutated and
// the error is surfaced.
func (e *Episodes) Retry(ctx context.Context, id int64) error {
	if err := e.backend.RetryEpisode(ctx, id); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if idx := e.indexOf(id); idx >= 0 {
		e.episodes[idx].DownloadStatus = model.StatusPending
		e.episodes[idx].DownloadError = nil
	}

	return nil
}

// Delete remove the episode on the backend, then locally. On backend
// failure the record is retained.
func (e *Episodes) Delete(ctx context.Context, id int64) error {
	if err := e.backend.DeleteEpisode(ctx, id); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if idx := e.indexOf(id); idx >= 0 {
		e.episodes = slices.Delete(e.episodes, idx, idx+1)
	}

	return nil
}

// Episodes return a copy of the working set in display order.
func (e *Episodes) Episodes() []model.Episode {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return slices.Clone(e.episodes)
}

func (e *Episodes) Get(id int64) (model.Episode, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if idx := e.indexOf(id); idx >= 0 {
		return e.episodes[idx], true
	}

	return model.Episode{}, false
}

// Stats return the last loaded aggregate counts, adjusted by discoveries.
func (e *Episodes) Stats() (model.EpisodeStats, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.stats == nil {
		return model.EpisodeStats{}, false
	}

	return *e.stats, true
}

// ActiveDownloads return episodes currently downloading, display order.
func (e *Episodes) ActiveDownloads() []model.Episode {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var active []model.Episode

	for _, ep := range e.episodes {
		if ep.DownloadStatus == model.StatusDownloading {
			active = append(active, ep)
		}
	}

	return active
}

// indexOf must be called with the mutex held.
func (e *Episodes) indexOf(id int64) int {
	return slices.IndexFunc(e.episodes, func(ep model.Episode) bool { return ep.ID == id })
}

func logStaleRef(ctx context.Context, kind string, id int64) {
	log.Ctx(ctx).Debug().Int64("episode_id", id).Str("event", kind).
		Msg("ledger: event references unknown episode; ignoring")
}
