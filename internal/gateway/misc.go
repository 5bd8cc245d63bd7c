package gateway

//
// misc.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/Synapsr/PodcastSync/internal/model"
)

// SelectOutputDirectory open a directory picker on the backend side (the
// daemon runs where the files live). Return nil when the user cancelled.
func (g *Gateway) SelectOutputDirectory(ctx context.Context) (*string, error) {
	var res struct {
		Path *string `json:"path"`
	}

	if err := g.post(ctx, "/api/v1/fs/select-directory", nil, &res); err != nil {
		return nil, err
	}

	return res.Path, nil
}

func (g *Gateway) OpenInFileManager(ctx context.Context, path string) error {
	body := struct {
		Path string `json:"path"`
	}{Path: path}

	return g.post(ctx, "/api/v1/fs/open", &body, nil)
}

// CheckForUpdate query the backend for a new application release.
func (g *Gateway) CheckForUpdate(ctx context.Context) (model.UpdateInfo, error) {
	var info model.UpdateInfo
	if err := g.get(ctx, "/api/v1/update/check", nil, &info); err != nil {
		return model.UpdateInfo{}, err
	}

	return info, nil
}
