package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DSACMS/receipt-processor-client/pkg/core"
	"github.com/DSACMS/receipt-processor-client/pkg/receipts"
	"github.com/DSACMS/receipt-processor-client/pkg/recorder"
	"github.com/DSACMS/receipt-processor-client/pkg/redis"
	"github.com/DSACMS/receipt-processor-client/pkg/webclient"
)

func main() {
	os.Exit(start())
}

func start() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := core.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "loading env files: %v\n", err)
	}

	cfg, err := core.NewConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return 2
	}

	logger := core.NewLogger(cfg, os.Stderr)
	wcOpts := webclient.Options{}
	if !cfg.Otel.Disable {
		otelService, err := core.NewOtelService(ctx, &cfg)
		if err != nil {
			logger.Warn("telemetry disabled", slog.Any("error", err))
		} else {
			logger = core.NewLoggerWithOtel(cfg, os.Stderr, otelService)
			wcOpts.TracerProvider = otelService.TracerProvider()
			wcOpts.MeterProvider = otelService.MeterProvider()
			defer otelService.Shutdown(ctx, logger)
		}
	}
	slog.SetDefault(logger)
	wcOpts.Logger = logger

	client, cleanup, err := buildClient(ctx, cfg, wcOpts)
	if err != nil {
		logger.Error("failed to build client", slog.Any("error", err))
		return 1
	}
	defer cleanup()

	if err := run(ctx, client); err != nil {
		logger.Error("run aborted", slog.Any("error", err))
		return 1
	}
	return 0
}

func buildClient(ctx context.Context, cfg core.Config, wcOpts webclient.Options) (*receipts.Client, func(), error) {
	logger := wcOpts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	wc, err := webclient.New(
		webclient.Config{
			BaseURL:   cfg.Receipts.BaseURL,
			Timeout:   cfg.Receipts.Timeout,
			AuthToken: cfg.Receipts.AuthToken,
			OAuth: webclient.ClientCredentials{
				TokenURL:     cfg.Receipts.OAuth.TokenURL,
				ClientID:     cfg.Receipts.OAuth.ClientID,
				ClientSecret: cfg.Receipts.OAuth.ClientSecret,
				Scopes:       cfg.OAuthScopes(),
			},
		},
		wcOpts,
	)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var rec recorder.Recorder = recorder.Nop{}

	if cfg.Redis.Enable {
		rdb, err := redis.Open(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			logger.Warn("responses will not be recorded", slog.Any("error", err))
		} else {
			rr := recorder.NewRedisRecorder(rdb, cfg.Redis.KeyPrefix, cfg.Redis.TTL)
			logger.Info("recording responses", slog.String("key", rr.Key()))
			rec = rr
			cleanup = func() { _ = rdb.Close() }
		}
	}

	return receipts.New(wc, receipts.Options{
		Logger:   logger,
		Recorder: rec,
	}), cleanup, nil
}

type step func(context.Context, receipts.CallOptions) (*webclient.Response, error)

// run walks the API through the fixed smoke sequence. Every call is verbose.
func run(ctx context.Context, client *receipts.Client) error {
	verbose := receipts.CallOptions{Verbose: true}

	points := func(id string) step {
		return func(ctx context.Context, o receipts.CallOptions) (*webclient.Response, error) {
			return client.Points(ctx, id, o)
		}
	}
	breakdown := func(id string) step {
		return func(ctx context.Context, o receipts.CallOptions) (*webclient.Response, error) {
			return client.Breakdown(ctx, id, o)
		}
	}

	steps := []step{
		points(""),
		client.FetchMalformed1,
		client.FetchMalformed2,
		client.SubmitReceipt1,
		client.SubmitReceipt2,
		client.SubmitReceipt3,
		client.SubmitBad1,
		client.SubmitBad2,
		points(""),
		breakdown(""),
		points("abc-123"),
		breakdown("abc-123"),
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s(ctx, verbose); err != nil {
			return err
		}
	}

	_, err := client.AllPointsAndBreakdowns(ctx, verbose)
	return err
}
