package core

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

const otelShutdownTimeout = 5 * time.Second

// ServiceVersion is stamped on the telemetry resource. Set with -ldflags.
var ServiceVersion string

type OtelService interface {
	TracerProvider() trace.TracerProvider
	MeterProvider() metric.MeterProvider
	LoggerProvider() log.LoggerProvider
	Shutdown(c context.Context, logger *slog.Logger)
}

type otelService struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	logProvider    *sdklog.LoggerProvider
	conn           *grpc.ClientConn
}

var _ OtelService = (*otelService)(nil)

// NewOtelService exports traces, metrics and logs over one OTLP gRPC
// connection and installs the trace and metric providers globally.
func NewOtelService(ctx context.Context, cfg *Config) (OtelService, error) {
	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := newConn(cfg)
	if err != nil {
		return nil, err
	}

	s := &otelService{conn: conn}
	if err := s.start(ctx, res); err != nil {
		return nil, errors.Join(err, s.shutdown(ctx))
	}

	otel.SetTracerProvider(s.tracerProvider)
	otel.SetMeterProvider(s.meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return s, nil
}

func (s *otelService) start(ctx context.Context, res *resource.Resource) error {
	spans, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(s.conn))
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}
	s.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(spans),
	)

	metrics, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(s.conn))
	if err != nil {
		return fmt.Errorf("failed to create meter exporter: %w", err)
	}
	s.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metrics)),
		sdkmetric.WithResource(res),
	)

	logs, err := otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(s.conn))
	if err != nil {
		return fmt.Errorf("failed to create log exporter: %w", err)
	}
	s.logProvider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logs)),
	)

	return nil
}

// Providers flush in creation order; the connection goes last.
func (s *otelService) shutdown(ctx context.Context) error {
	var errs []error
	if s.tracerProvider != nil {
		errs = append(errs, s.tracerProvider.Shutdown(ctx))
	}
	if s.meterProvider != nil {
		errs = append(errs, s.meterProvider.Shutdown(ctx))
	}
	if s.logProvider != nil {
		errs = append(errs, s.logProvider.Shutdown(ctx))
	}
	errs = append(errs, s.conn.Close())

	return errors.Join(errs...)
}

func (s *otelService) TracerProvider() trace.TracerProvider { return s.tracerProvider }
func (s *otelService) MeterProvider() metric.MeterProvider  { return s.meterProvider }
func (s *otelService) LoggerProvider() log.LoggerProvider   { return s.logProvider }

func (s *otelService) Shutdown(c context.Context, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), otelShutdownTimeout)
	defer cancel()

	if err := s.shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(c, "Error shutting down otel", slog.Any("error", err))
	}
}

func newConn(cfg *Config) (*grpc.ClientConn, error) {
	creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	if cfg.Otel.OtlpExporter.Insecure {
		creds = insecure.NewCredentials()
	}

	conn, err := grpc.NewClient(
		cfg.Otel.OtlpExporter.Endpoint,
		grpc.WithTransportCredentials(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GRPC connection: %w", err)
	}

	return conn, nil
}

func newResource(ctx context.Context) (*resource.Resource, error) {
	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithOS(),
		resource.WithProcess(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry resource: %w", err)
	}

	return res, nil
}
