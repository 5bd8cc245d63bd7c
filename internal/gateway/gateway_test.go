package gateway

//
// gateway_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Synapsr/PodcastSync/internal/aerr"
	"github.com/Synapsr/PodcastSync/internal/assert"
	"github.com/Synapsr/PodcastSync/internal/command"
	"github.com/Synapsr/PodcastSync/internal/model"
)

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	assert.NoErr(t, err)

	return &Gateway{base: base, client: srv.Client()}, srv
}

func TestListSubscriptions(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, http.MethodGet)
		assert.Equal(t, r.URL.Path, "/api/v1/subscriptions")
		assert.NotEqual(t, r.Header.Get("X-Request-Id"), "")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"feed one","rss_url":"https://example.com/1.xml",` + //nolint:errcheck
			`"enabled":true,"preferred_quality":"enclosure","total_episodes_found":5,` +
			`"total_downloads":3,"created_at":"2025-01-01T00:00:00Z","updated_at":"2025-01-01T00:00:00Z"}]`))
	}))

	subs, err := gw.ListSubscriptions(context.Background())
	assert.NoErr(t, err)
	assert.Equal(t, len(subs), 1)
	assert.Equal(t, subs[0].ID, 1)
	assert.Equal(t, subs[0].Name, "feed one")
	assert.Equal(t, subs[0].TotalEpisodesFound, 5)
}

func TestCreateSubscriptionRoundTrip(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, http.MethodPost)
		assert.Equal(t, r.URL.Path, "/api/v1/subscriptions")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"name":"created","rss_url":"https://example.com/f.xml",` + //nolint:errcheck
			`"enabled":true,"preferred_quality":"enclosure",` +
			`"created_at":"2025-01-01T00:00:00Z","updated_at":"2025-01-01T00:00:00Z"}`))
	}))

	cmd := command.CreateSubscriptionCmd{
		Name:                  "created",
		RSSURL:                "https://example.com/f.xml",
		CheckFrequencyMinutes: 60,
		OutputDirectory:       "/downloads",
		PreferredQuality:      model.QualityEnclosure,
	}

	sub, err := gw.CreateSubscription(context.Background(), &cmd)
	assert.NoErr(t, err)
	assert.Equal(t, sub.ID, 7)
}

func TestBackendErrorIsSurfaced(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"feed fetch failed: timeout"}`)) //nolint:errcheck
	}))

	err := gw.RetryEpisode(context.Background(), 3)
	assert.Err(t, err)
	assert.True(t, aerr.HasTag(err, aerr.RemoteCallError))
	assert.Equal(t, aerr.GetUserMessage(err), "feed fetch failed: timeout")
}

func TestConnectionErrorIsRemoteCallError(t *testing.T) {
	gw, srv := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := gw.ListEpisodes(context.Background())
	assert.Err(t, err)
	assert.True(t, aerr.HasTag(err, aerr.RemoteCallError))
}

func TestListEpisodesByStatus(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Query().Get("status"), "failed")

		w.Write([]byte(`[]`)) //nolint:errcheck
	}))

	episodes, err := gw.ListEpisodesByStatus(context.Background(), model.StatusFailed)
	assert.NoErr(t, err)
	assert.Equal(t, len(episodes), 0)
}

func TestVerifySubscriptionFiles(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, http.MethodPost)
		assert.Equal(t, r.URL.Path, "/api/v1/subscriptions/4/verify-files")

		w.Write([]byte(`[10,12]`)) //nolint:errcheck
	}))

	invalidated, err := gw.VerifySubscriptionFiles(context.Background(), 4)
	assert.NoErr(t, err)
	assert.EqualSorted(t, invalidated, []int64{10, 12})
}

func TestProcessPendingEpisodes(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/api/v1/episodes/process-pending")

		w.Write([]byte(`{"queued":4}`)) //nolint:errcheck
	}))

	queued, err := gw.ProcessPendingEpisodes(context.Background())
	assert.NoErr(t, err)
	assert.Equal(t, queued, 4)
}

func TestSelectOutputDirectoryCancelled(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"path":null}`)) //nolint:errcheck
	}))

	path, err := gw.SelectOutputDirectory(context.Background())
	assert.NoErr(t, err)
	assert.True(t, path == nil)
}

func TestCheckForUpdate(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/api/v1/update/check")

		w.Write([]byte(`{"current_version":"1.0.0","latest_version":"1.1.0",` + //nolint:errcheck
			`"update_available":true,"release_url":"https://example.com/rel"}`))
	}))

	info, err := gw.CheckForUpdate(context.Background())
	assert.NoErr(t, err)
	assert.True(t, info.UpdateAvailable)
	assert.Equal(t, info.LatestVersion, "1.1.0")
}
