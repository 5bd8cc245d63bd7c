package gateway

//
// feed.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog/log"

	"github.com/Synapsr/PodcastSync/internal/aerr"
)

const feedFetchTimeout = 30 * time.Second

// ResolveFeedTitle return the feed title for url, asking the backend first
// and parsing the feed locally when the backend lookup fails. Used to
// prefill the subscription name before the subscription exists.
func (g *Gateway) ResolveFeedTitle(ctx context.Context, url string) (string, error) {
	logger := log.Ctx(ctx)

	title, err := g.FetchFeedTitle(ctx, url)
	if err == nil && title != "" {
		return title, nil
	}

	if err != nil {
		logger.Info().Err(err).Str("feed_url", url).
			Msg("feed: backend title lookup failed; parsing feed locally")
	}

	dctx, cancel := context.WithTimeout(ctx, feedFetchTimeout)
	defer cancel()

	fp := gofeed.NewParser()

	feed, err := fp.ParseURLWithContext(url, dctx)
	if err != nil {
		return "", aerr.ApplyFor(aerr.ErrRemoteCall, err, "fetch feed failed").
			WithMeta("feed_url", url)
	}

	logger.Debug().Str("feed_url", url).Msgf("feed: got title: %q", feed.Title)

	title = feed.Title
	if title == "" {
		title = "<no title>"
	}

	return title, nil
}
