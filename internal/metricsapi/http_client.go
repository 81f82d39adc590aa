package metricsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ccdash/internal/observability"
	"ccdash/internal/stats"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const maxErrorBody = 2048

type httpClient struct {
	cfg        Config
	httpClient *http.Client
	cache      Store
	group      singleflight.Group
}

func newHTTPClient(cfg Config, store Store) *httpClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if store == nil {
		store = NewMemoryStore()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &httpClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache: store,
	}
}

// Fetch queries the endpoint. With a window it first tries the shortcut path and,
// when that answers 404, repeats the query on the range endpoint with literal dates.
func (c *httpClient) Fetch(ctx context.Context, req Request) (stats.RowSet, error) {
	params := req.params()

	if shortcut := req.Endpoint.shortcutPath(req.Window); shortcut != "" {
		body, err := c.get(ctx, req.Endpoint.Name, shortcut, params)
		if err == nil {
			return stats.DecodeRowSet(req.Endpoint.Name, body)
		}
		if !IsNotFound(err) || !req.Endpoint.RangeFallback {
			return stats.RowSet{Source: req.Endpoint.Name}, err
		}
		observability.ShortcutFallbacks.WithLabelValues(req.Endpoint.Name).Inc()
		log.Warn().
			Str("endpoint", shortcut).
			Str("fallback", req.Endpoint.Path).
			Str("range", req.Range.String()).
			Msg("Shortcut endpoint unavailable, using range endpoint")
	}

	body, err := c.get(ctx, req.Endpoint.Name, req.Endpoint.Path, params)
	if err != nil {
		return stats.RowSet{Source: req.Endpoint.Name}, err
	}
	return stats.DecodeRowSet(req.Endpoint.Name, body)
}

func (c *httpClient) Purge(ctx context.Context) error {
	return c.cache.Purge(ctx)
}

// get returns the body of a cached GET. Concurrent identical requests share one round trip.
func (c *httpClient) get(ctx context.Context, name, path string, params url.Values) ([]byte, error) {
	key := path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	if body, ok := c.cache.Get(ctx, key); ok {
		observability.CacheLookups.WithLabelValues("hit").Inc()
		return body, nil
	}
	observability.CacheLookups.WithLabelValues("miss").Inc()

	v, err, shared := c.group.Do(key, func() (any, error) {
		body, err := c.do(ctx, name, http.MethodGet, path, params, nil)
		if err != nil {
			return nil, err
		}
		c.cache.Set(ctx, key, body, c.cfg.CacheTTL)
		return body, nil
	})
	if shared {
		log.Debug().Str("key", key).Msg("Shared in-flight request")
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// do performs one uncached request and returns the raw body of a 2xx answer.
func (c *httpClient) do(ctx context.Context, name, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.cfg.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("method", method).Str("url", u).Msg("Calling metrics API")
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	observability.APILatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.APIRequests.WithLabelValues(name, "unreachable").Inc()
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		outcome := "error"
		if resp.StatusCode == http.StatusNotFound {
			outcome = "not_found"
		}
		observability.APIRequests.WithLabelValues(name, outcome).Inc()
		return nil, &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.APIRequests.WithLabelValues(name, "unreachable").Inc()
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnreachable, path, err)
	}
	observability.APIRequests.WithLabelValues(name, "ok").Inc()
	return body, nil
}
