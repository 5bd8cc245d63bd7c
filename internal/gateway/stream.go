package gateway

//
// stream.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"

	"github.com/Synapsr/PodcastSync/internal/aerr"
	"github.com/Synapsr/PodcastSync/internal/event"
)

const (
	streamInitialBackoff = time.Second
	streamMaxBackoff     = 30 * time.Second
)

var errStreamClosed = errors.New("event stream closed")

// StreamEvents open the backend SSE event stream and deliver each decoded
// event to handler, in arrival order, from a single goroutine. The stream
// reconnects with exponential backoff until ctx is cancelled; a decode
// failure of one event is logged and skipped, never fatal.
func (g *Gateway) StreamEvents(ctx context.Context, path string, handler func(event.Event)) error {
	logger := log.Ctx(ctx)

	backoff := newStreamBackoff()

	for {
		err := g.consumeStream(ctx, path, handler, func() {
			// connection established and delivering; start backoff over
			backoff = newStreamBackoff()
		})

		if ctx.Err() != nil {
			return nil
		}

		delay, _ := backoff.Next()
		logger.Warn().Err(err).Dur("delay", delay).Msg("stream: connection lost; reconnecting")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func newStreamBackoff() retry.Backoff {
	return retry.WithCappedDuration(streamMaxBackoff,
		retry.WithJitterPercent(10, retry.NewExponential(streamInitialBackoff))) //nolint:mnd
}

// consumeStream open one connection and dispatch events until it breaks.
func (g *Gateway) consumeStream(ctx context.Context, path string, handler func(event.Event),
	onConnect func(),
) error {
	logger := log.Ctx(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint(path, nil), nil)
	if err != nil {
		return aerr.Wrapf(err, "create stream request failed").WithTag(aerr.InternalError)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := g.client.Do(req)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrRemoteCall, err, "connect to event stream failed")
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:mnd

		return aerr.New("event stream returned status %d", resp.StatusCode).
			WithTag(aerr.RemoteCallError)
	}

	logger.Info().Str("path", path).Msg("stream: connected")
	onConnect()

	var (
		kind string
		data strings.Builder
	)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) //nolint:mnd

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			if kind != "" && data.Len() > 0 {
				g.dispatch(ctx, kind, data.String(), handler)
			}

			kind = ""

			data.Reset()

		case strings.HasPrefix(line, "event:"):
			kind = strings.TrimSpace(strings.TrimPrefix(line, "event:"))

		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}

			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))

		default:
			// comments (":keepalive") and id: lines are ignored
		}
	}

	if err := scanner.Err(); err != nil {
		return aerr.Wrapf(err, "read event stream failed").WithTag(aerr.RemoteCallError)
	}

	return errStreamClosed
}

func (g *Gateway) dispatch(ctx context.Context, kind, data string, handler func(event.Event)) {
	logger := log.Ctx(ctx)

	if g.logBody {
		logger.Debug().Str("kind", kind).Str("data", data).Msg("stream: raw event")
	}

	ev, err := event.Decode(kind, []byte(data))
	if err != nil {
		logger.Warn().Err(err).Str("kind", kind).Msg("stream: dropping malformed event")

		return
	}

	handler(ev)
}
