package ledger

//
// subscriptions.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/command"
	"github.com/Synapsr/PodcastSync/internal/model"
)

// SubscriptionBackend is the slice of the command gateway the subscription
// ledger round-trips through.
type SubscriptionBackend interface {
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
	CreateSubscription(ctx context.Context, cmd *command.CreateSubscriptionCmd) (model.Subscription, error)
	UpdateSubscription(ctx context.Context, cmd *command.UpdateSubscriptionCmd) (model.Subscription, error)
	DeleteSubscription(ctx context.Context, id int64) error
	ToggleSubscription(ctx context.Context, id int64, enabled bool) error
	CheckSubscriptionNow(ctx context.Context, id int64) error
}

// Subscriptions owns the in-memory subscription collection. Counter bumps
// are local-only optimistic increments, never decremented except by a full
// LoadAll; prolonged use without refresh can drift from backend truth,
// which is acceptable for advisory display counters.
type Subscriptions struct {
	backend SubscriptionBackend

	mu   sync.RWMutex
	subs []model.Subscription
}

func NewSubscriptionsLedger(i do.Injector) (*Subscriptions, error) {
	return &Subscriptions{
		backend: do.MustInvoke[SubscriptionBackend](i),
	}, nil
}

// LoadAll replace the collection with an authoritative fetch; previous
// state is kept on error.
func (s *Subscriptions) LoadAll(ctx context.Context) error {
	subs, err := s.backend.ListSubscriptions(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.subs = subs
	s.mu.Unlock()

	return nil
}

// Create validate the command, round-trip to the backend for the
// authoritative record, append it locally and immediately trigger a feed
// check. The subscription stays in the ledger even when the immediate
// check fails; the check error is surfaced to the caller.
func (s *Subscriptions) Create(ctx context.Context, cmd *command.CreateSubscriptionCmd,
) (model.Subscription, error) {
	if err := cmd.Validate(); err != nil {
		return model.Subscription{}, err
	}

	sub, err := s.backend.CreateSubscription(ctx, cmd)
	if err != nil {
		return model.Subscription{}, err
	}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	log.Ctx(ctx).Info().Object("subscription", &sub).Msg("ledger: subscription created")

	if err := s.backend.CheckSubscriptionNow(ctx, sub.ID); err != nil {
		return sub, err
	}

	return sub, nil
}

// Update round-trip the edit and replace the local record on success.
func (s *Subscriptions) Update(ctx context.Context, cmd *command.UpdateSubscriptionCmd,
) (model.Subscription, error) {
	if err := cmd.Validate(); err != nil {
		return model.Subscription{}, err
	}

	sub, err := s.backend.UpdateSubscription(ctx, cmd)
	if err != nil {
		return model.Subscription{}, err
	}

	s.mu.Lock()

	if idx := s.indexOf(sub.ID); idx >= 0 {
		s.subs[idx] = sub
	}

	s.mu.Unlock()

	return sub, nil
}

// Delete remove on the backend, then locally; record retained on failure.
func (s *Subscriptions) Delete(ctx context.Context, id int64) error {
	if err := s.backend.DeleteSubscription(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id); idx >= 0 {
		s.subs = slices.Delete(s.subs, idx, idx+1)
	}

	return nil
}

// ToggleEnabled flip the enable flag, optimistically on command success.
func (s *Subscriptions) ToggleEnabled(ctx context.Context, id int64, enabled bool) error {
	if err := s.backend.ToggleSubscription(ctx, id, enabled); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id); idx >= 0 {
		s.subs[idx].Enabled = enabled
	}

	return nil
}

// CheckNow trigger an immediate feed check; state is updated later by the
// resulting subscription-checked event.
func (s *Subscriptions) CheckNow(ctx context.Context, id int64) error {
	return s.backend.CheckSubscriptionNow(ctx, id)
}

// IncrementEpisodeCount bump the found-episodes counter on a discovery
// event. Unknown ids are stale references and ignored.
func (s *Subscriptions) IncrementEpisodeCount(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		logStaleSub(ctx, "episode-count", id)

		return
	}

	s.subs[idx].TotalEpisodesFound++
}

// IncrementDownloadCount bump the downloads counter on a completed event.
func (s *Subscriptions) IncrementDownloadCount(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		logStaleSub(ctx, "download-count", id)

		return
	}

	s.subs[idx].TotalDownloads++
}

// TouchLastChecked record that the backend just finished a feed check,
// with the check error when it failed.
func (s *Subscriptions) TouchLastChecked(ctx context.Context, id int64, errText *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		logStaleSub(ctx, "checked", id)

		return
	}

	now := time.Now().UTC()
	s.subs[idx].LastCheckedAt = &now
	s.subs[idx].LastError = errText

	if errText == nil {
		s.subs[idx].LastSuccessAt = &now
	}
}

// Subscriptions return a copy of the collection.
func (s *Subscriptions) Subscriptions() []model.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.subs)
}

func (s *Subscriptions) Get(id int64) (model.Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.subs[idx], true
	}

	return model.Subscription{}, false
}

// indexOf must be called with the mutex held.
func (s *Subscriptions) indexOf(id int64) int {
	return slices.IndexFunc(s.subs, func(sub model.Subscription) bool { return sub.ID == id })
}

func logStaleSub(ctx context.Context, kind string, id int64) {
	log.Ctx(ctx).Debug().Int64("subscription_id", id).Str("event", kind).
		Msg("ledger: event references unknown subscription; ignoring")
}
