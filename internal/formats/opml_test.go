package formats

//
// opml_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"strings"
	"testing"

	"github.com/Synapsr/PodcastSync/internal/assert"
	"github.com/Synapsr/PodcastSync/internal/model"
)

func TestOPMLRoundTrip(t *testing.T) {
	subs := []model.Subscription{
		{Name: "Radio Lab", RSSURL: "https://example.com/radiolab.xml"},
		{Name: "Go Time", RSSURL: "https://example.com/gotime.xml", Enabled: true},
	}

	opml := NewOPMLFromSubscriptions("subscriptions", subs)

	b, err := opml.XML()
	assert.NoErr(t, err)
	assert.True(t, strings.Contains(string(b), `xmlUrl="https://example.com/radiolab.xml"`))

	parsed, err := NewOPMLFromBytes(b)
	assert.NoErr(t, err)
	assert.Equal(t, "subscriptions", parsed.Head.Title)

	feeds := parsed.ExtractFeeds()
	assert.Equal(t, 2, len(feeds))
	assert.Equal(t, "Radio Lab", feeds[0].Title)
	assert.Equal(t, "https://example.com/gotime.xml", feeds[1].URL)
}

func TestOPMLExtractFeeds(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>export</title></head>
  <body>
    <outline text="group without url"/>
    <outline type="rss" text="only text" xmlUrl="https://example.com/a.xml"/>
    <outline type="rss" title="dup" xmlUrl="https://example.com/a.xml"/>
    <outline type="rss" title="other" xmlUrl="https://example.com/b.xml"/>
  </body>
</opml>`

	opml, err := NewOPMLFromBytes([]byte(doc))
	assert.NoErr(t, err)

	feeds := opml.ExtractFeeds()
	assert.Equal(t, 2, len(feeds))
	assert.Equal(t, "only text", feeds[0].Title)
	assert.Equal(t, "https://example.com/b.xml", feeds[1].URL)
}

func TestOPMLFromInvalidBytes(t *testing.T) {
	_, err := NewOPMLFromBytes([]byte("not xml at all <"))
	assert.Err(t, err)
}
