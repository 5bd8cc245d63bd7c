package bridge

//
// bridge_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/assert"
	"github.com/Synapsr/PodcastSync/internal/command"
	"github.com/Synapsr/PodcastSync/internal/config"
	"github.com/Synapsr/PodcastSync/internal/event"
	"github.com/Synapsr/PodcastSync/internal/ledger"
	"github.com/Synapsr/PodcastSync/internal/model"
)

type fakeBackend struct {
	episodes []model.Episode
	subs     []model.Subscription
	verified []int64
	missing  []int64
	listed   int
}

func (f *fakeBackend) ListEpisodes(context.Context) ([]model.Episode, error) {
	f.listed++

	return f.episodes, nil
}

func (f *fakeBackend) ListEpisodesBySubscription(context.Context, int64) ([]model.Episode, error) {
	return f.episodes, nil
}

func (f *fakeBackend) ListEpisodesByStatus(context.Context, model.DownloadStatus) ([]model.Episode, error) {
	return f.episodes, nil
}

func (f *fakeBackend) GetEpisodeStats(context.Context) (model.EpisodeStats, error) {
	return model.EpisodeStats{}, nil
}

func (f *fakeBackend) RetryEpisode(context.Context, int64) error  { return nil }
func (f *fakeBackend) DeleteEpisode(context.Context, int64) error { return nil }

func (f *fakeBackend) ListSubscriptions(context.Context) ([]model.Subscription, error) {
	return f.subs, nil
}

func (f *fakeBackend) CreateSubscription(context.Context, *command.CreateSubscriptionCmd) (model.Subscription, error) {
	return model.Subscription{}, nil
}

func (f *fakeBackend) UpdateSubscription(context.Context, *command.UpdateSubscriptionCmd) (model.Subscription, error) {
	return model.Subscription{}, nil
}

func (f *fakeBackend) DeleteSubscription(context.Context, int64) error       { return nil }
func (f *fakeBackend) ToggleSubscription(context.Context, int64, bool) error { return nil }
func (f *fakeBackend) CheckSubscriptionNow(context.Context, int64) error     { return nil }

func (f *fakeBackend) VerifySubscriptionFiles(_ context.Context, id int64) ([]int64, error) {
	f.verified = append(f.verified, id)

	return f.missing, nil
}

type fakeSource struct {
	events []event.Event
}

func (f *fakeSource) StreamEvents(_ context.Context, _ string, handler func(event.Event)) error {
	for _, ev := range f.events {
		handler(ev)
	}

	return nil
}

func prepareTests(t *testing.T) (context.Context, do.Injector, *fakeBackend) {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(t.Context())

	fake := &fakeBackend{}

	i := do.New(Package, ledger.Package)
	do.ProvideValue(i, config.Default())
	do.ProvideValue[ledger.EpisodeBackend](i, fake)
	do.ProvideValue[ledger.SubscriptionBackend](i, fake)
	do.ProvideValue[EventSource](i, &fakeSource{})
	do.ProvideValue[FileVerifier](i, fake)

	return ctx, i, fake
}

func testSubscription(id int64) model.Subscription {
	return model.Subscription{
		ID:                    id,
		Name:                  "test feed",
		RSSURL:                "https://example.com/feed.xml",
		CheckFrequencyMinutes: 60,
		OutputDirectory:       "/media/podcasts",
		MaxItemsToCheck:       10,
		Enabled:               true,
		PreferredQuality:      model.QualityEnclosure,
	}
}

func testEpisode(id, subID int64) model.Episode {
	return model.Episode{
		ID:             id,
		SubscriptionID: subID,
		GUID:           "guid",
		Title:          "episode",
		DownloadStatus: model.StatusPending,
	}
}

func TestBridgeDownloadLifecycle(t *testing.T) {
	ctx, i, fake := prepareTests(t)

	fake.subs = []model.Subscription{testSubscription(1)}

	episodes := do.MustInvoke[*ledger.Episodes](i)
	subs := do.MustInvoke[*ledger.Subscriptions](i)
	assert.NoErr(t, subs.LoadAll(ctx))

	bridge := do.MustInvoke[*Bridge](i)

	// a discovery followed by the full download lifecycle
	bridge.Handle(ctx, event.EpisodeDiscovered{SubscriptionID: 1, Episode: testEpisode(10, 1)})
	bridge.Handle(ctx, event.DownloadStarted{EpisodeID: 10, SubscriptionID: 1})
	bridge.Handle(ctx, event.DownloadProgress{EpisodeID: 10, Progress: 42})
	bridge.Handle(ctx, event.DownloadCompleted{EpisodeID: 10, SubscriptionID: 1, FilePath: "/media/ep.mp3"})

	ep, ok := episodes.Get(10)
	assert.True(t, ok, "discovered episode should be in the ledger")
	assert.Equal(t, ep.DownloadStatus, model.StatusCompleted)
	assert.Equal(t, *ep.DownloadPath, "/media/ep.mp3")
	assert.Equal(t, ep.DownloadProgress, 100)

	sub, _ := subs.Get(1)
	assert.Equal(t, sub.TotalEpisodesFound, 1)
	assert.Equal(t, sub.TotalDownloads, 1)
}

func TestBridgeDuplicateDiscoveryCountsOnce(t *testing.T) {
	ctx, i, fake := prepareTests(t)

	fake.subs = []model.Subscription{testSubscription(1)}

	subs := do.MustInvoke[*ledger.Subscriptions](i)
	assert.NoErr(t, subs.LoadAll(ctx))

	bridge := do.MustInvoke[*Bridge](i)
	bridge.Handle(ctx, event.EpisodeDiscovered{SubscriptionID: 1, Episode: testEpisode(10, 1)})
	bridge.Handle(ctx, event.EpisodeDiscovered{SubscriptionID: 1, Episode: testEpisode(10, 1)})

	sub, _ := subs.Get(1)
	assert.Equal(t, sub.TotalEpisodesFound, 1)
}

func TestBridgeDownloadFailed(t *testing.T) {
	ctx, i, _ := prepareTests(t)

	episodes := do.MustInvoke[*ledger.Episodes](i)
	bridge := do.MustInvoke[*Bridge](i)

	bridge.Handle(ctx, event.EpisodeDiscovered{SubscriptionID: 1, Episode: testEpisode(10, 1)})
	bridge.Handle(ctx, event.DownloadFailed{EpisodeID: 10, Error: "disk full"})

	ep, _ := episodes.Get(10)
	assert.Equal(t, ep.DownloadStatus, model.StatusFailed)
	assert.Equal(t, *ep.DownloadError, "disk full")
}

func TestBridgeSubscriptionChecked(t *testing.T) {
	ctx, i, fake := prepareTests(t)

	fake.subs = []model.Subscription{testSubscription(1)}

	subs := do.MustInvoke[*ledger.Subscriptions](i)
	assert.NoErr(t, subs.LoadAll(ctx))

	bridge := do.MustInvoke[*Bridge](i)
	bridge.Handle(ctx, event.SubscriptionChecked{SubscriptionID: 1, NewEpisodesCount: 3})

	sub, _ := subs.Get(1)
	assert.True(t, sub.LastCheckedAt != nil, "check must update last-checked")
	assert.True(t, sub.LastError == nil)
}

func TestBridgeUpdateAvailableNotifies(t *testing.T) {
	ctx, i, _ := prepareTests(t)

	bridge := do.MustInvoke[*Bridge](i)

	var got *model.UpdateInfo

	bridge.OnUpdateAvailable(func(info model.UpdateInfo) { got = &info })
	bridge.Handle(ctx, event.UpdateAvailable{
		Info: model.UpdateInfo{LatestVersion: "2.0.0", UpdateAvailable: true},
	})

	assert.True(t, got != nil, "update hook should fire")
	assert.Equal(t, got.LatestVersion, "2.0.0")
}

func TestBridgeStaleEventIsAbsorbed(t *testing.T) {
	ctx, i, _ := prepareTests(t)

	episodes := do.MustInvoke[*ledger.Episodes](i)
	bridge := do.MustInvoke[*Bridge](i)

	// progress for an unknown episode must not crash or create records
	bridge.Handle(ctx, event.DownloadProgress{EpisodeID: 999, Progress: 50})

	assert.Equal(t, len(episodes.Episodes()), 0)
}

func TestVerifierReloadsOnMissingFiles(t *testing.T) {
	ctx, i, fake := prepareTests(t)

	fake.subs = []model.Subscription{testSubscription(1), testSubscription(2)}

	subs := do.MustInvoke[*ledger.Subscriptions](i)
	assert.NoErr(t, subs.LoadAll(ctx))

	episodes := do.MustInvoke[*ledger.Episodes](i)
	assert.NoErr(t, episodes.LoadAll(ctx))
	assert.Equal(t, fake.listed, 1)

	verifier := do.MustInvoke[*Verifier](i)

	// nothing missing: no reload
	verifier.VerifyOnce(ctx)
	assert.EqualSorted(t, fake.verified, []int64{1, 2})
	assert.Equal(t, fake.listed, 1)

	// missing files trigger a reload
	fake.missing = []int64{10}
	verifier.VerifyOnce(ctx)
	assert.Equal(t, fake.listed, 2)
}
