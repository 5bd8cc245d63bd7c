package gateway

//
// subscriptions.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Synapsr/PodcastSync/internal/command"
	"github.com/Synapsr/PodcastSync/internal/model"
)

func (g *Gateway) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	var subs []model.Subscription
	if err := g.get(ctx, "/api/v1/subscriptions", nil, &subs); err != nil {
		return nil, err
	}

	return subs, nil
}

func (g *Gateway) GetSubscription(ctx context.Context, id int64) (model.Subscription, error) {
	var sub model.Subscription
	if err := g.get(ctx, fmt.Sprintf("/api/v1/subscriptions/%d", id), nil, &sub); err != nil {
		return model.Subscription{}, err
	}

	return sub, nil
}

// CreateSubscription round-trip to the backend for the authoritative record
// (including its id).
func (g *Gateway) CreateSubscription(ctx context.Context, cmd *command.CreateSubscriptionCmd,
) (model.Subscription, error) {
	var sub model.Subscription
	if err := g.post(ctx, "/api/v1/subscriptions", cmd, &sub); err != nil {
		return model.Subscription{}, err
	}

	return sub, nil
}

func (g *Gateway) UpdateSubscription(ctx context.Context, cmd *command.UpdateSubscriptionCmd,
) (model.Subscription, error) {
	var sub model.Subscription
	if err := g.put(ctx, fmt.Sprintf("/api/v1/subscriptions/%d", cmd.ID), cmd, &sub); err != nil {
		return model.Subscription{}, err
	}

	return sub, nil
}

func (g *Gateway) DeleteSubscription(ctx context.Context, id int64) error {
	return g.delete(ctx, fmt.Sprintf("/api/v1/subscriptions/%d", id))
}

func (g *Gateway) ToggleSubscription(ctx context.Context, id int64, enabled bool) error {
	body := struct {
		Enabled bool `json:"enabled"`
	}{Enabled: enabled}

	return g.post(ctx, fmt.Sprintf("/api/v1/subscriptions/%d/toggle", id), &body, nil)
}

// CheckSubscriptionNow ask the backend to poll the feed immediately.
func (g *Gateway) CheckSubscriptionNow(ctx context.Context, id int64) error {
	return g.post(ctx, fmt.Sprintf("/api/v1/subscriptions/%d/check", id), nil, nil)
}

// FetchFeedTitle resolve feed title via the backend.
func (g *Gateway) FetchFeedTitle(ctx context.Context, feedurl string) (string, error) {
	query := url.Values{"url": []string{feedurl}}

	var res struct {
		Title string `json:"title"`
	}

	if err := g.get(ctx, "/api/v1/feeds/title", query, &res); err != nil {
		return "", err
	}

	return res.Title, nil
}
