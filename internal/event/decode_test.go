package event

//
// decode_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"testing"

	"github.com/Synapsr/PodcastSync/internal/assert"
)

func TestDecodeDownloadProgress(t *testing.T) {
	payload := []byte(`{"episode_id":10,"downloaded":4200,"total":10000,"progress":42,"speed":512.5}`)

	ev, err := Decode("download-progress", payload)
	assert.NoErr(t, err)

	progress, ok := ev.(DownloadProgress)
	assert.True(t, ok)
	assert.Equal(t, progress.EpisodeID, 10)
	assert.Equal(t, progress.Progress, 42)
	assert.Equal(t, *progress.Total, 10000)
}

func TestDecodeClampsProgress(t *testing.T) {
	ev, err := Decode("download-progress", []byte(`{"episode_id":10,"progress":150}`))
	assert.NoErr(t, err)
	assert.Equal(t, ev.(DownloadProgress).Progress, 100)

	ev, err = Decode("download-progress", []byte(`{"episode_id":10,"progress":-5}`))
	assert.NoErr(t, err)
	assert.Equal(t, ev.(DownloadProgress).Progress, 0)
}

func TestDecodeEpisodeDiscovered(t *testing.T) {
	payload := []byte(`{"subscription_id":1,"episode":{"id":10,"subscription_id":1,` +
		`"guid":"g-10","title":"ep ten","audio_url":"https://example.com/10.mp3",` +
		`"download_status":"pending","download_progress":0,` +
		`"discovered_at":"2025-06-01T10:00:00Z"}}`)

	ev, err := Decode("episode-discovered", payload)
	assert.NoErr(t, err)

	discovered, ok := ev.(EpisodeDiscovered)
	assert.True(t, ok)
	assert.Equal(t, discovered.SubscriptionID, 1)
	assert.Equal(t, discovered.Episode.ID, 10)
	assert.Equal(t, discovered.Episode.GUID, "g-10")
}

func TestDecodeFailedFillsErrorText(t *testing.T) {
	ev, err := Decode("download-failed", []byte(`{"episode_id":3,"error":""}`))
	assert.NoErr(t, err)
	assert.Equal(t, ev.(DownloadFailed).Error, "unknown error")
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	_, err := Decode("episode-exploded", []byte(`{}`))
	assert.ErrSpec(t, err, "unknown event kind")
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	_, err := Decode("download-started", []byte(`{"episode_id":`))
	assert.Err(t, err)

	// missing ids are rejected, not silently zero
	_, err = Decode("download-started", []byte(`{}`))
	assert.ErrSpec(t, err, "invalid event payload")

	_, err = Decode("download-completed", []byte(`{"episode_id":5}`))
	assert.ErrSpec(t, err, "invalid event payload")
}

func TestDecodeSubscriptionChecked(t *testing.T) {
	ev, err := Decode("subscription-checked",
		[]byte(`{"subscription_id":1,"new_episodes_count":2,"error":null}`))
	assert.NoErr(t, err)

	checked := ev.(SubscriptionChecked)
	assert.Equal(t, checked.NewEpisodesCount, 2)
	assert.True(t, checked.Error == nil)
}
