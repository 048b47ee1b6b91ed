package core

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "receipt-processor-client"

// Logs go to stderr by default; stdout belongs to the response display.
func newConsoleHandler(cfg Config, out io.Writer) slog.Handler {
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.IsProd() {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

func NewLogger(cfg Config, out io.Writer) *slog.Logger {
	return slog.New(newConsoleHandler(cfg, out))
}

func NewLoggerWithOtel(cfg Config, out io.Writer, otel OtelService) *slog.Logger {
	consoleHandler := newConsoleHandler(cfg, out)
	otelHandler := otelslog.NewHandler(
		serviceName,
		otelslog.WithLoggerProvider(otel.LoggerProvider()),
	)

	return slog.New(
		slogmulti.Fanout(
			consoleHandler,
			otelHandler,
		),
	)
}
