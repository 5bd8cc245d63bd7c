package gateway

//
// gateway.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/aerr"
	"github.com/Synapsr/PodcastSync/internal/config"
)

// Gateway is a stateless, typed facade over the backend daemon REST API.
// Every call is an independent request/response round-trip; failures come
// back as RemoteCallError-tagged errors with display-ready text and are
// never silently retried.
type Gateway struct {
	base    *url.URL
	client  *http.Client
	logBody bool
}

func NewGateway(i do.Injector) (*Gateway, error) {
	cfg := do.MustInvoke[*config.Config](i)

	base, err := url.Parse(cfg.Backend.URL)
	if err != nil {
		return nil, aerr.Wrapf(err, "parse backend url failed").WithTag(aerr.ConfigurationError)
	}

	return &Gateway{
		base: base,
		client: &http.Client{
			// commands have no deadline of their own; this guards only
			// against connections that never even get established
			Timeout: 0,
			Transport: &http.Transport{
				MaxIdleConns:        4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logBody: cfg.DebugFlags.HasFlag(config.DebugMsgBody),
	}, nil
}

// backendError is error payload returned by the daemon.
type backendError struct {
	Error string `json:"error"`
}

func (g *Gateway) endpoint(path string, query url.Values) string {
	u := *g.base
	u.Path = strings.TrimRight(u.Path, "/") + path

	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u.String()
}

// call perform one request; on success decode response body into dst
// (when dst is not nil).
func (g *Gateway) call(ctx context.Context, method, path string, query url.Values, body, dst any) error {
	reqid := xid.New().String()
	logger := log.Ctx(ctx).With().Str("req_id", reqid).Str("method", method).Str("path", path).Logger()

	var reqbody io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return aerr.Wrapf(err, "marshal request failed").WithTag(aerr.InternalError)
		}

		if g.logBody {
			logger.Debug().RawJSON("body", data).Msg("gateway: request body")
		}

		reqbody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.endpoint(path, query), reqbody)
	if err != nil {
		return aerr.Wrapf(err, "create request failed").WithTag(aerr.InternalError)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqid)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug().Msg("gateway: calling backend")

	resp, err := g.client.Do(req)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrRemoteCall, err).WithMeta("path", path, "req_id", reqid)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return g.decodeError(resp, path, reqid)
	}

	if dst == nil {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrRemoteCall, err).WithMeta("path", path, "req_id", reqid)
	}

	if g.logBody {
		logger.Debug().RawJSON("body", data).Msg("gateway: response body")
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return aerr.Wrapf(err, "decode response failed").
			WithTag(aerr.RemoteCallError).
			WithUserMsg("backend returned malformed response").
			WithMeta("path", path, "req_id", reqid)
	}

	return nil
}

func (g *Gateway) decodeError(resp *http.Response, path, reqid string) error {
	msg := resp.Status

	var berr backendError
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024)); err == nil { //nolint:mnd
		if jerr := json.Unmarshal(data, &berr); jerr == nil && berr.Error != "" {
			msg = berr.Error
		}
	}

	return aerr.New("backend call failed: %s", msg).
		WithTag(aerr.RemoteCallError).
		WithUserMsg("%s", msg).
		WithMeta("path", path, "status", resp.StatusCode, "req_id", reqid)
}

func (g *Gateway) get(ctx context.Context, path string, query url.Values, dst any) error {
	return g.call(ctx, http.MethodGet, path, query, nil, dst)
}

func (g *Gateway) post(ctx context.Context, path string, body, dst any) error {
	return g.call(ctx, http.MethodPost, path, nil, body, dst)
}

func (g *Gateway) put(ctx context.Context, path string, body, dst any) error {
	return g.call(ctx, http.MethodPut, path, nil, body, dst)
}

func (g *Gateway) delete(ctx context.Context, path string) error {
	return g.call(ctx, http.MethodDelete, path, nil, nil, nil)
}
