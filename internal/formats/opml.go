package formats

//
// opml.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"encoding/xml"

	"github.com/Synapsr/PodcastSync/internal/aerr"
	"github.com/Synapsr/PodcastSync/internal/model"
)

// OPML is the exchange format for subscription lists. Only rss outlines
// with a xmlUrl are meaningful on import; everything else is ignored.
type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

type Head struct {
	Title string `xml:"title"`
}

type Body struct {
	Outlines []Outline `xml:"outline"`
}

type Outline struct {
	Title  string `xml:"title,attr,omitempty"`
	Text   string `xml:"text,attr,omitempty"`
	Type   string `xml:"type,attr,omitempty"`
	XMLURL string `xml:"xmlUrl,attr,omitempty"`
}

func NewOPML(title string) OPML {
	return OPML{
		Version: "2.0",
		Head:    Head{Title: title},
	}
}

// NewOPMLFromSubscriptions builds an export document; disabled
// subscriptions are included so a round-trip keeps the full list.
func NewOPMLFromSubscriptions(title string, subs []model.Subscription) OPML {
	opml := NewOPML(title)

	for _, sub := range subs {
		opml.AddRSS(sub.RSSURL, sub.Name, sub.Name)
	}

	return opml
}

func NewOPMLFromBytes(b []byte) (OPML, error) {
	var o OPML

	if err := xml.Unmarshal(b, &o); err != nil {
		return o, aerr.Wrapf(err, "unmarshal opml error").WithTag(aerr.ValidationError)
	}

	return o, nil
}

func (o *OPML) XML() ([]byte, error) {
	b, err := xml.MarshalIndent(o, "", "\t")
	if err != nil {
		return nil, aerr.Wrapf(err, "marshal opml error")
	}

	return append([]byte(xml.Header), b...), nil
}

func (o *OPML) AddRSS(url, title, text string) {
	outline := Outline{Type: "rss", XMLURL: url, Title: title, Text: text}
	o.Body.Outlines = append(o.Body.Outlines, outline)
}

// Feed is one importable entry extracted from an outline.
type Feed struct {
	URL   string
	Title string
}

// ExtractFeeds returns all outlines carrying a feed url, deduplicated
// by url with the first occurrence winning.
func (o *OPML) ExtractFeeds() []Feed {
	feeds := make([]Feed, 0, len(o.Body.Outlines))
	seen := make(map[string]struct{})

	for _, outline := range o.Body.Outlines {
		url := outline.XMLURL
		if url == "" {
			continue
		}

		if _, ok := seen[url]; ok {
			continue
		}

		seen[url] = struct{}{}

		title := outline.Title
		if title == "" {
			title = outline.Text
		}

		feeds = append(feeds, Feed{URL: url, Title: title})
	}

	return feeds
}
