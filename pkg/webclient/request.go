package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/DSACMS/receipt-processor-client/pkg/choice"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// GET issues a GET for path relative to the base URL.
func (c *Client) GET(ctx context.Context, path string, debug bool) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, debug)
}

// POST sends body as JSON to path. A nil body sends no payload.
func (c *Client) POST(ctx context.Context, path string, body any, debug bool) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, debug)
}

// do returns an error only when no HTTP response was obtained.
func (c *Client) do(ctx context.Context, method, path string, body any, debug bool) (_ *Response, err error) {
	if c.timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
	}

	ctx, span := c.tracer.Start(ctx, "webclient "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	target := c.baseURL + path
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", target),
	)

	// Requests log at debug level unless the caller asked to see them.
	level := choice.Ternary(debug, slog.LevelInfo, slog.LevelDebug)
	log := c.logger.With(
		slog.String("method", method),
		slog.String("url", target),
	)

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			log.Error("webclient marshal failed", slog.Any("error", err))
			return nil, fmt.Errorf("marshal %s %s body: %w", method, path, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		log.Error("webclient create request failed", slog.Any("error", err))
		return nil, fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", applicationJSON)
	if body != nil {
		req.Header.Set("Content-Type", applicationJSON)
	}

	log.Log(ctx, level, "webclient request", slog.String("body", snippet(payload)))

	start := time.Now()
	resp, err := c.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		log.Error("webclient request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("webclient read body failed", slog.Any("error", err))
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	c.record(ctx, method, resp.StatusCode, latency)

	log.Log(ctx, level, "webclient response",
		slog.Int("status", resp.StatusCode),
		slog.String("content_type", resp.Header.Get("Content-Type")),
		slog.Duration("latency", latency),
		slog.String("body", snippet(respBody)),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Method:     method,
		URL:        req.URL.String(),
		Header:     resp.Header.Clone(),
		Body:       respBody,
	}, nil
}

func (c *Client) record(ctx context.Context, method string, status int, latency time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.Int("http.response.status_code", status),
	)
	if c.requests != nil {
		c.requests.Add(ctx, 1, attrs)
	}
	if c.duration != nil {
		c.duration.Record(ctx, float64(latency.Microseconds())/1000.0, attrs)
	}
}

func snippet(b []byte) string {
	s := string(b)
	if len(s) > maxBodyLogBytes {
		s = s[:maxBodyLogBytes] + "..."
	}
	return s
}
