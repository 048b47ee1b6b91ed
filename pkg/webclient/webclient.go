// Package webclient is the small HTTP helper the receipt client talks through.
// It issues GET and POST calls against a base URL and hands back the whole
// response, whatever its status. It never retries.
package webclient

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/DSACMS/receipt-processor-client/pkg/webclient"

	applicationJSON = "application/json"

	maxBodyLogBytes = 800
)

var ErrBaseURL = errors.New("invalid base url")

type HTTPTransport interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	// Scheme, host and optional path prefix, e.g. "http://localhost:8080".
	BaseURL string
	// Applied per call when the caller's context has no deadline.
	Timeout time.Duration
	// Sent as a bearer token when set.
	AuthToken string
	// Used when AuthToken is empty and TokenURL is set.
	OAuth ClientCredentials
}

// ClientCredentials describes an OAuth2 client credentials grant. The token
// is fetched on first use and reused until it expires.
type ClientCredentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

type Options struct {
	// Override for testing the HTTP client
	HTTPClient HTTPTransport
	// Structured logger using slog package
	Logger *slog.Logger
	// Defaults to the global providers when nil
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Client is safe for sequential and concurrent use.
type Client struct {
	baseURL string
	client  HTTPTransport
	logger  *slog.Logger
	timeout time.Duration
	tracer  trace.Tracer

	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func New(cfg Config, opts Options) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "webclient"),
		slog.String("base_url", base),
	)

	client := opts.HTTPClient
	if client == nil {
		client = HeaderPreservingClient()
	}
	switch {
	case cfg.AuthToken != "":
		client = WithBearerToken(client, cfg.AuthToken)
	case cfg.OAuth.TokenURL != "":
		base, ok := opts.HTTPClient.(*http.Client)
		if !ok {
			base = HeaderPreservingClient()
		}
		client = WithTokenSource(client, clientCredentialsSource(cfg.OAuth, base))
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	requests, err := meter.Int64Counter(
		"webclient.requests",
		metric.WithDescription("HTTP calls made, by method and status"),
	)
	if err != nil {
		logger.Warn("webclient request counter unavailable", slog.Any("error", err))
	}

	duration, err := meter.Float64Histogram(
		"webclient.duration",
		metric.WithDescription("HTTP call latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		logger.Warn("webclient duration histogram unavailable", slog.Any("error", err))
	}

	return &Client{
		baseURL:  base,
		client:   client,
		logger:   logger,
		timeout:  cfg.Timeout,
		tracer:   tp.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
	}, nil
}

// BaseURL returns the normalized base URL, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func parseBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrBaseURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrBaseURL)
	}

	return strings.TrimRight(u.String(), "/"), nil
}
