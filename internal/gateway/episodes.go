package gateway

//
// episodes.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Synapsr/PodcastSync/internal/model"
)

func (g *Gateway) ListEpisodes(ctx context.Context) ([]model.Episode, error) {
	var episodes []model.Episode
	if err := g.get(ctx, "/api/v1/episodes", nil, &episodes); err != nil {
		return nil, err
	}

	return episodes, nil
}

func (g *Gateway) ListEpisodesBySubscription(ctx context.Context, subscriptionID int64,
) ([]model.Episode, error) {
	query := url.Values{"subscription_id": []string{strconv.FormatInt(subscriptionID, 10)}}

	var episodes []model.Episode
	if err := g.get(ctx, "/api/v1/episodes", query, &episodes); err != nil {
		return nil, err
	}

	return episodes, nil
}

func (g *Gateway) ListEpisodesByStatus(ctx context.Context, status model.DownloadStatus,
) ([]model.Episode, error) {
	query := url.Values{"status": []string{string(status)}}

	var episodes []model.Episode
	if err := g.get(ctx, "/api/v1/episodes", query, &episodes); err != nil {
		return nil, err
	}

	return episodes, nil
}

func (g *Gateway) GetEpisode(ctx context.Context, id int64) (model.Episode, error) {
	var episode model.Episode
	if err := g.get(ctx, fmt.Sprintf("/api/v1/episodes/%d", id), nil, &episode); err != nil {
		return model.Episode{}, err
	}

	return episode, nil
}

func (g *Gateway) RetryEpisode(ctx context.Context, id int64) error {
	return g.post(ctx, fmt.Sprintf("/api/v1/episodes/%d/retry", id), nil, nil)
}

func (g *Gateway) DeleteEpisode(ctx context.Context, id int64) error {
	return g.delete(ctx, fmt.Sprintf("/api/v1/episodes/%d", id))
}

func (g *Gateway) GetEpisodeStats(ctx context.Context) (model.EpisodeStats, error) {
	var stats model.EpisodeStats
	if err := g.get(ctx, "/api/v1/episodes/stats", nil, &stats); err != nil {
		return model.EpisodeStats{}, err
	}

	return stats, nil
}

// VerifyEpisodeFile ask the backend to check that the downloaded file still
// exists and is intact. Return false when the file was invalidated.
func (g *Gateway) VerifyEpisodeFile(ctx context.Context, id int64) (bool, error) {
	var res struct {
		Valid bool `json:"valid"`
	}

	if err := g.post(ctx, fmt.Sprintf("/api/v1/episodes/%d/verify", id), nil, &res); err != nil {
		return false, err
	}

	return res.Valid, nil
}

// VerifySubscriptionFiles verify all downloaded files of one subscription;
// return ids of episodes whose files were invalidated.
func (g *Gateway) VerifySubscriptionFiles(ctx context.Context, subscriptionID int64) ([]int64, error) {
	var invalidated []int64

	err := g.post(ctx, fmt.Sprintf("/api/v1/subscriptions/%d/verify-files", subscriptionID),
		nil, &invalidated)
	if err != nil {
		return nil, err
	}

	return invalidated, nil
}

// ProcessPendingEpisodes ask the backend to queue all pending episodes for
// download; return the number newly queued.
func (g *Gateway) ProcessPendingEpisodes(ctx context.Context) (int, error) {
	var res struct {
		Queued int `json:"queued"`
	}

	if err := g.post(ctx, "/api/v1/episodes/process-pending", nil, &res); err != nil {
		return 0, err
	}

	return res.Queued, nil
}
