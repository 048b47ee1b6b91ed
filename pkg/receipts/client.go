// Package receipts drives a receipt processing API through a fixed set of
// calls and remembers the identifiers it gets back.
package receipts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/DSACMS/receipt-processor-client/pkg/display"
	"github.com/DSACMS/receipt-processor-client/pkg/recorder"
	"github.com/DSACMS/receipt-processor-client/pkg/webclient"
)

const (
	processPath   = "/receipts/process"
	pointsPath    = "/receipts/%s/points"
	breakdownPath = "/receipts/%s/breakdown"
)

// Transport is satisfied by *webclient.Client.
type Transport interface {
	GET(ctx context.Context, path string, debug bool) (*webclient.Response, error)
	POST(ctx context.Context, path string, body any, debug bool) (*webclient.Response, error)
}

type Options struct {
	// Structured logger using slog package
	Logger *slog.Logger
	// Where verbose calls print responses. Defaults to os.Stdout.
	Out io.Writer
	// Source for random identifier picks. Defaults to the auto-seeded global source.
	Rand *rand.Rand
	// Sees every response. Defaults to recorder.Nop.
	Recorder recorder.Recorder
}

// CallOptions are per call flags. The zero value is quiet.
type CallOptions struct {
	// Passed through to the transport, which logs request and response details.
	Debug bool
	// Prints the response, and any random pick, to Options.Out.
	Verbose bool
}

type Client struct {
	transport Transport
	logger    *slog.Logger
	out       io.Writer
	recorder  recorder.Recorder
	intn      func(int) int

	pool Pool
}

func New(transport Transport, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "receipts"))

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	rec := opts.Recorder
	if rec == nil {
		rec = recorder.Nop{}
	}

	intn := rand.IntN
	if opts.Rand != nil {
		intn = opts.Rand.IntN
	}

	return &Client{
		transport: transport,
		logger:    logger,
		out:       out,
		recorder:  rec,
		intn:      intn,
	}
}

// IDs returns the remembered identifiers in submission order.
func (c *Client) IDs() []string {
	return c.pool.IDs()
}

// SubmitAndRemember posts payload, usually a Receipt, to the process
// endpoint. A 200 carrying an id adds it to the pool. Any other status is
// returned untouched; only a transport failure is an error.
func (c *Client) SubmitAndRemember(ctx context.Context, payload any, opts CallOptions) (*webclient.Response, error) {
	resp, err := c.transport.POST(ctx, processPath, payload, opts.Debug)
	if err != nil {
		return nil, fmt.Errorf("submit receipt: %w", err)
	}

	if resp.OK() {
		c.remember(resp)
	}

	c.finish(ctx, resp, opts)
	return resp, nil
}

func (c *Client) remember(resp *webclient.Response) {
	var out ProcessResponse
	if err := resp.JSON(&out); err != nil {
		c.logger.Warn("submission succeeded without a readable body", slog.Any("error", err))
		return
	}
	if out.ID == nil {
		c.logger.Warn("submission succeeded without an id")
		return
	}

	c.pool.Append(*out.ID)
	c.logger.Debug("remembered receipt id",
		slog.String("id", *out.ID),
		slog.Int("pool_size", c.pool.Len()),
	)
}

// Points fetches the points for id. An empty id picks a remembered one at
// random; with nothing remembered the empty id is sent as is.
func (c *Client) Points(ctx context.Context, id string, opts CallOptions) (*webclient.Response, error) {
	return c.fetch(ctx, pointsPath, id, opts)
}

// Breakdown is Points for the breakdown endpoint.
func (c *Client) Breakdown(ctx context.Context, id string, opts CallOptions) (*webclient.Response, error) {
	return c.fetch(ctx, breakdownPath, id, opts)
}

// AllPointsAndBreakdowns walks the pool in order, fetching points then
// breakdown for each identifier. The responses come back in call order. On a
// transport failure the responses gathered so far are returned with the error.
func (c *Client) AllPointsAndBreakdowns(ctx context.Context, opts CallOptions) ([]*webclient.Response, error) {
	ids := c.pool.IDs()
	responses := make([]*webclient.Response, 0, 2*len(ids))

	for _, id := range ids {
		resp, err := c.Points(ctx, id, opts)
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)

		resp, err = c.Breakdown(ctx, id, opts)
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (c *Client) fetch(ctx context.Context, pathFormat, id string, opts CallOptions) (*webclient.Response, error) {
	id = c.pick(id, opts)

	resp, err := c.get(ctx, fmt.Sprintf(pathFormat, id), opts)
	if err != nil {
		return nil, fmt.Errorf("fetch receipt %q: %w", id, err)
	}
	return resp, nil
}

func (c *Client) pick(id string, opts CallOptions) string {
	if id != "" {
		return id
	}

	picked, ok := c.pool.Random(c.intn)
	if !ok {
		return id
	}

	if opts.Verbose {
		display.Selected(c.out, picked)
	}
	return picked
}

func (c *Client) get(ctx context.Context, path string, opts CallOptions) (*webclient.Response, error) {
	resp, err := c.transport.GET(ctx, path, opts.Debug)
	if err != nil {
		return nil, err
	}

	c.finish(ctx, resp, opts)
	return resp, nil
}

func (c *Client) finish(ctx context.Context, resp *webclient.Response, opts CallOptions) {
	if err := c.recorder.Record(ctx, resp); err != nil {
		c.logger.Warn("failed to record response", slog.Any("error", err))
	}

	if opts.Verbose {
		display.Show(c.out, resp)
	}
}
