package ledger

//
// testhelpers_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/command"
	"github.com/Synapsr/PodcastSync/internal/model"
)

func prepareTests(t *testing.T) (context.Context, do.Injector, *fakeBackend) {
	t.Helper()

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	ctx := log.Logger.WithContext(context.Background())

	fake := &fakeBackend{nextID: 100}

	i := do.New(Package)
	do.ProvideValue[EpisodeBackend](i, fake)
	do.ProvideValue[SubscriptionBackend](i, fake)

	return ctx, i, fake
}

// fakeBackend is a scriptable stand-in for the command gateway.
type fakeBackend struct {
	episodes []model.Episode
	subs     []model.Subscription
	stats    model.EpisodeStats

	failWith error
	nextID   int64

	retried  []int64
	deleted  []int64
	checked  []int64
	toggled  []int64
	subsGone []int64
}

func (f *fakeBackend) ListEpisodes(context.Context) ([]model.Episode, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	return f.episodes, nil
}

func (f *fakeBackend) ListEpisodesBySubscription(_ context.Context, subscriptionID int64,
) ([]model.Episode, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	var res []model.Episode

	for _, ep := range f.episodes {
		if ep.SubscriptionID == subscriptionID {
			res = append(res, ep)
		}
	}

	return res, nil
}

func (f *fakeBackend) ListEpisodesByStatus(_ context.Context, status model.DownloadStatus,
) ([]model.Episode, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	var res []model.Episode

	for _, ep := range f.episodes {
		if ep.DownloadStatus == status {
			res = append(res, ep)
		}
	}

	return res, nil
}

func (f *fakeBackend) GetEpisodeStats(context.Context) (model.EpisodeStats, error) {
	if f.failWith != nil {
		return model.EpisodeStats{}, f.failWith
	}

	return f.stats, nil
}

func (f *fakeBackend) RetryEpisode(_ context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}

	f.retried = append(f.retried, id)

	return nil
}

func (f *fakeBackend) DeleteEpisode(_ context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}

	f.deleted = append(f.deleted, id)

	return nil
}

func (f *fakeBackend) ListSubscriptions(context.Context) ([]model.Subscription, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	return f.subs, nil
}

func (f *fakeBackend) CreateSubscription(_ context.Context, cmd *command.CreateSubscriptionCmd,
) (model.Subscription, error) {
	if f.failWith != nil {
		return model.Subscription{}, f.failWith
	}

	f.nextID++

	return model.Subscription{
		ID:                    f.nextID,
		Name:                  cmd.Name,
		RSSURL:                cmd.RSSURL,
		CheckFrequencyMinutes: cmd.CheckFrequencyMinutes,
		OutputDirectory:       cmd.OutputDirectory,
		Enabled:               true,
		PreferredQuality:      cmd.PreferredQuality,
		CreatedAt:             time.Now().UTC(),
		UpdatedAt:             time.Now().UTC(),
	}, nil
}

func (f *fakeBackend) UpdateSubscription(_ context.Context, cmd *command.UpdateSubscriptionCmd,
) (model.Subscription, error) {
	if f.failWith != nil {
		return model.Subscription{}, f.failWith
	}

	return model.Subscription{
		ID:     cmd.ID,
		Name:   cmd.Name,
		RSSURL: cmd.RSSURL,
	}, nil
}

func (f *fakeBackend) DeleteSubscription(_ context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}

	f.subsGone = append(f.subsGone, id)

	return nil
}

func (f *fakeBackend) ToggleSubscription(_ context.Context, id int64, _ bool) error {
	if f.failWith != nil {
		return f.failWith
	}

	f.toggled = append(f.toggled, id)

	return nil
}

func (f *fakeBackend) CheckSubscriptionNow(_ context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}

	f.checked = append(f.checked, id)

	return nil
}

//---------------------------------------------------------------------

func testEpisode(id, subID int64, status model.DownloadStatus) model.Episode {
	return model.Episode{
		ID:             id,
		SubscriptionID: subID,
		GUID:           "guid-" + string(rune('0'+id%10)),
		Title:          "episode",
		AudioURL:       "https://example.com/media.mp3",
		DownloadStatus: status,
		DiscoveredAt:   time.Now().UTC(),
	}
}

func testSubscription(id int64) model.Subscription {
	return model.Subscription{
		ID:      id,
		Name:    "sub",
		RSSURL:  "https://example.com/feed.xml",
		Enabled: true,
	}
}
