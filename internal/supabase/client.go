// Package supabase is a small client for the hosted Supabase project: the
// PostgREST database API and the GoTrue auth API.
package supabase

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

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/mirror-api/internal/obs"
	"github.com/noah-isme/mirror-api/internal/resilience"
)

const maxResponseBytes = 16 << 20

// Config configures a Client.
type Config struct {
	URL         string
	AnonKey     string
	Timeout     time.Duration
	MaxAttempts int
	// HTTPClient overrides the instrumented default transport.
	HTTPClient *http.Client
	Breaker    *resilience.Breaker
	Logger     zerolog.Logger
}

// Client talks to one Supabase project.
type Client struct {
	baseURL string
	restURL string
	authURL string
	anonKey string
	http    resilience.HTTPClient
	logger  zerolog.Logger
}

// New validates cfg and builds a client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, errors.New("supabase: project URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("supabase: invalid project URL: %w", err)
	}
	if strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, errors.New("supabase: anon key is required")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	breaker := cfg.Breaker
	if breaker == nil {
		breaker = resilience.NewBreaker(resilience.BreakerConfig{
			Target:       "supabase",
			MinRequests:  10,
			FailureRatio: 0.5,
			OpenFor:      30 * time.Second,
			Logger:       cfg.Logger,
		})
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: base,
		restURL: base + "/rest/v1",
		authURL: base + "/auth/v1",
		anonKey: cfg.AnonKey,
		http: resilience.HTTPClient{
			Client:      hc,
			Breaker:     breaker,
			MaxAttempts: cfg.MaxAttempts,
			BaseBackoff: 200 * time.Millisecond,
			Jitter:      0.2,
			Timeout:     timeout,
		},
		logger: cfg.Logger,
	}, nil
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// do sends one logical request. The bearer defaults to the caller token on
// ctx so row-level security applies, falling back to the anon key.
func (c *Client) do(ctx context.Context, api, method, endpoint string, payload any, headers map[string]string) (*response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("supabase: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("supabase: build request: %w", err)
	}
	bearer := c.anonKey
	if token, ok := AccessToken(ctx); ok {
		bearer = token
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		obs.CountSupabaseRequest(api, err)
		return nil, fmt.Errorf("supabase: %s %s: %w", method, api, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		obs.CountSupabaseRequest(api, err)
		return nil, fmt.Errorf("supabase: read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := parseError(raw, resp.StatusCode)
		obs.CountSupabaseRequest(api, apiErr)
		if resp.StatusCode >= http.StatusInternalServerError {
			c.loggerFor(ctx).Warn().Str("api", api).Int("status", resp.StatusCode).Str("error", apiErr.Message).Msg("supabase_upstream_error")
		}
		return nil, apiErr
	}
	obs.CountSupabaseRequest(api, nil)
	return &response{status: resp.StatusCode, header: resp.Header, body: raw}, nil
}

func (c *Client) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &c.logger
}

type tokenKey struct{}

// WithAccessToken stores the caller's access token for subsequent requests.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// AccessToken returns the caller token stored by WithAccessToken.
func AccessToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}
