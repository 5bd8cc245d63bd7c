package ledger

//
// subscriptions_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"
	"testing"

	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/assert"
	"github.com/Synapsr/PodcastSync/internal/command"
	"github.com/Synapsr/PodcastSync/internal/model"
)

func validCreateCmd() command.CreateSubscriptionCmd {
	return command.CreateSubscriptionCmd{
		Name:                  "test feed",
		RSSURL:                "https://example.com/feed.xml",
		CheckFrequencyMinutes: 60,
		OutputDirectory:       "/downloads",
		PreferredQuality:      model.QualityEnclosure,
	}
}

func TestSubscriptionsCreateTriggersCheck(t *testing.T) {
	ctx, i, fake := prepareTests(t)
	subs := do.MustInvoke[*Subscriptions](i)

	cmd := validCreateCmd()

	sub, err := subs.Create(ctx, &cmd)
	assert.NoErr(t, err)
	assert.True(t, sub.ID > 0)

	// authoritative id from backend, immediate feed check
	assert.Equal(t, len(subs.Subscriptions()), 1)
	assert.EqualSorted(t, fake.checked, []int64{sub.ID})
}

func TestSubscriptionsCreateValidates(t *testing.T) {
	ctx, i, fake := prepareTests(t)
	subs := do.MustInvoke[*Subscriptions](i)

	cmd := validCreateCmd()
	cmd.RSSURL = ""

	_, err := subs.Create(ctx, &cmd)
	assert.Err(t, err)

	// validation blocks before any remote call
	assert.Equal(t, fake.nextID, 100)
	assert.Equal(t, len(subs.Subscriptions()), 0)
}

func TestSubscriptionsCreateBackendFailure(t *testing.T) {
	ctx, i, fake := prepareTests(t)
	subs := do.MustInvoke[*Subscriptions](i)

	fake.failWith = errors.New("backend down")

	cmd := validCreateCmd()
	_, err := subs.Create(ctx, &cmd)
	assert.Err(t, err)
	assert.Equal(t, len(subs.Subscriptions()), 0)
}

func TestSubscriptionsToggleOptimistic(t *testing.T) {
	ctx, i, fake := prepareTests(t)
	subs := do.MustInvoke[*Subscriptions](i)

	fake.subs = []model.Subscription{testSubscription(1)}
	assert.NoErr(t, subs.LoadAll(ctx))

	assert.NoErr(t, subs.ToggleEnabled(ctx, 1, false))

	got, ok := subs.Get(1)
	assert.True(t, ok)
	assert.True(t, !got.Enabled)
}

func TestSubscriptionsToggleFailureKeepsFlag(t *testing.T) {
	ctx, i, fake := prepareTests(t)
	subs := do.MustInvoke[*Subscriptions](i)

	fake.subs = []model.Subscription{testSubscription(1)}
	assert.NoErr(t, subs.LoadAll(ctx))

	fake.failWith = errors.New("backend down")
	assert.Err(t, subs.ToggleEnabled(ctx, 1, false))

	got, _ := subs.Get(1)
	assert.True(t, got.Enabled)
}

func TestSubscriptionsCountersAreMonotonic(t *testing.T) {
	ctx, i, fake := prepareTests(t)
	subs := do.MustInvoke[*Subscriptions](i)

	fake.subs = []model.Subscription{testSubscription(1)}
	assert.NoErr(t, subs.LoadAll(ctx))

	subs.IncrementEpisodeCount(ctx, 1)
	subs.IncrementEpisodeCount(ctx, 1)
	subs.IncrementDownloadCount(ctx, 1)

	got, _ := subs.Get(1)
	assert.Equal(t, got.TotalEpisodesFound, 2)
	assert.Equal(t, got.TotalDownloads, 1)

	// stale subscription id is ignored
	subs.IncrementEpisodeCount(ctx, 99)
	got, _ = subs.Get(1)
	assert.Equal(t, got.TotalEpisodesFound, 2)
}

func TestSubscriptionsTouchLastChecked(t *testing.T) {
	ctx, i, fake := prepareTests(t)
	subs := do.MustInvoke[*Subscriptions](i)

	fake.subs = []model.Subscription{testSubscription(1)}
	assert.NoErr(t, subs.LoadAll(ctx))

	got, _ := subs.Get(1)
	assert.True(t, got.LastCheckedAt == nil)

	subs.TouchLastChecked(ctx, 1, nil)

	got, _ = subs.Get(1)
	assert.True(t, got.LastCheckedAt != nil)
	assert.True(t, got.LastSuccessAt != nil)
	assert.True(t, got.LastError == nil)

	// failed check records error text, keeps last success
	errText := "fetch feed failed"
	subs.TouchLastChecked(ctx, 1, &errText)

	got, _ = subs.Get(1)
	assert.True(t, got.LastSuccessAt != nil)
	assert.Equal(t, *got.LastError, errText)
}

func TestSubscriptionsDelete(t *testing.T) {
	ctx, i, fake := prepareTests(t)
	subs := do.MustInvoke[*Subscriptions](i)

	fake.subs = []model.Subscription{testSubscription(1), testSubscription(2)}
	assert.NoErr(t, subs.LoadAll(ctx))

	assert.NoErr(t, subs.Delete(ctx, 1))
	assert.Equal(t, len(subs.Subscriptions()), 1)

	fake.failWith = errors.New("backend down")
	assert.Err(t, subs.Delete(ctx, 2))
	assert.Equal(t, len(subs.Subscriptions()), 1)
}

func TestSubscriptionsUpdate(t *testing.T) {
	ctx, i, fake := prepareTests(t)
	subs := do.MustInvoke[*Subscriptions](i)

	fake.subs = []model.Subscription{testSubscription(1)}
	assert.NoErr(t, subs.LoadAll(ctx))

	cmd := command.UpdateSubscriptionCmd{ID: 1, CreateSubscriptionCmd: validCreateCmd()}
	cmd.Name = "renamed"

	_, err := subs.Update(ctx, &cmd)
	assert.NoErr(t, err)

	got, _ := subs.Get(1)
	assert.Equal(t, got.Name, "renamed")
}
