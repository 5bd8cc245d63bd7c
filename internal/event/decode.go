package event

//
// decode.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"encoding/json"

	"github.com/Synapsr/PodcastSync/internal/aerr"
)

var (
	ErrUnknownKind    = aerr.New("unknown event kind").WithTag(aerr.ValidationError)
	ErrInvalidPayload = aerr.New("invalid event payload").WithTag(aerr.ValidationError)
)

// Decode parse and validate one raw event. A malformed payload returns an
// error; it must never panic - one bad event must not take the bridge down.
func Decode(kind string, data []byte) (Event, error) { //nolint:cyclop
	switch Kind(kind) {
	case KindDownloadStarted:
		var ev DownloadStarted
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}

		if ev.EpisodeID <= 0 {
			return nil, ErrInvalidPayload.WithMeta("kind", kind)
		}

		return ev, nil

	case KindDownloadProgress:
		var ev DownloadProgress
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}

		if ev.EpisodeID <= 0 {
			return nil, ErrInvalidPayload.WithMeta("kind", kind)
		}

		// backend reports 0-100; clamp defensively so a bad report cannot
		// break progress display invariants downstream
		if ev.Progress < 0 {
			ev.Progress = 0
		} else if ev.Progress > 100 {
			ev.Progress = 100
		}

		return ev, nil

	case KindDownloadCompleted:
		var ev DownloadCompleted
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}

		if ev.EpisodeID <= 0 || ev.FilePath == "" {
			return nil, ErrInvalidPayload.WithMeta("kind", kind)
		}

		return ev, nil

	case KindDownloadFailed:
		var ev DownloadFailed
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}

		if ev.EpisodeID <= 0 {
			return nil, ErrInvalidPayload.WithMeta("kind", kind)
		}

		if ev.Error == "" {
			// failed episodes must carry non-empty error text
			ev.Error = "unknown error"
		}

		return ev, nil

	case KindEpisodeDiscovered:
		var ev EpisodeDiscovered
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}

		if ev.SubscriptionID <= 0 || ev.Episode.ID <= 0 {
			return nil, ErrInvalidPayload.WithMeta("kind", kind)
		}

		return ev, nil

	case KindSubscriptionChecked:
		var ev SubscriptionChecked
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}

		if ev.SubscriptionID <= 0 {
			return nil, ErrInvalidPayload.WithMeta("kind", kind)
		}

		return ev, nil

	case KindUpdateAvailable:
		var ev UpdateAvailable
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}

		return ev, nil
	}

	return nil, ErrUnknownKind.WithMeta("kind", kind)
}

func unmarshal(data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return aerr.Wrapf(err, "unmarshal event failed").WithTag(aerr.ValidationError)
	}

	return nil
}
