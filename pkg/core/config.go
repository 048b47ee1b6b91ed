package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultConfigEnvironment = "development"
	defaultLogLevel          = "info"

	defaultOtelDisable          = true
	defaultOTLPExporterEndpoint = "localhost:4317"
	defaultOTLPInsecure         = false

	defaultReceiptsBaseURL = "http://localhost:8080"
	defaultReceiptsTimeout = 10 * time.Second

	defaultRedisEnable    = false
	defaultRedisAddr      = "localhost:6379"
	defaultRedisPassword  = ""
	defaultRedisDB        = 0
	defaultRedisKeyPrefix = "receipts:run:"
	defaultRedisTTL       = 24 * time.Hour
)

func DefaultConfig() Config {
	return Config{
		Environment: defaultConfigEnvironment,
		LogLevel:    defaultLogLevel,
		Otel: OtelConfig{
			Disable: defaultOtelDisable,
			OtlpExporter: OtlpConfig{
				Endpoint: defaultOTLPExporterEndpoint,
				Insecure: defaultOTLPInsecure,
			},
		},
		Receipts: ReceiptsConfig{
			BaseURL: defaultReceiptsBaseURL,
			Timeout: defaultReceiptsTimeout,
		},
		Redis: RedisConfig{
			Enable:    defaultRedisEnable,
			Addr:      defaultRedisAddr,
			Password:  defaultRedisPassword,
			DB:        defaultRedisDB,
			KeyPrefix: defaultRedisKeyPrefix,
			TTL:       defaultRedisTTL,
		},
	}
}

func NewConfig(options ...func(*Config)) Config {
	config := DefaultConfig()
	for _, opt := range options {
		opt(&config)
	}
	return config
}

func NewConfigFromEnv(options ...func(*Config)) (Config, error) {
	config := DefaultConfig()
	err := errors.Join(
		setFromEnv(&config.Environment, "ENVIRONMENT"),
		setFromEnv(&config.LogLevel, "LOG_LEVEL"),
		setFromEnv(&config.Otel.Disable, "OTEL_DISABLE"),
		setFromEnv(&config.Otel.OtlpExporter.Endpoint, "OTEL_OTLP_EXPORTER_ENDPOINT"),
		setFromEnv(&config.Otel.OtlpExporter.Insecure, "OTEL_OTLP_EXPORTER_INSECURE"),
		setFromEnv(&config.Receipts.BaseURL, "RECEIPTS_BASE_URL"),
		setFromEnv(&config.Receipts.Timeout, "RECEIPTS_TIMEOUT"),
		setFromEnv(&config.Receipts.AuthToken, "RECEIPTS_AUTH_TOKEN"),
		setFromEnv(&config.Receipts.OAuth.TokenURL, "RECEIPTS_OAUTH_TOKEN_URL"),
		setFromEnv(&config.Receipts.OAuth.ClientID, "RECEIPTS_OAUTH_CLIENT_ID"),
		setFromEnv(&config.Receipts.OAuth.ClientSecret, "RECEIPTS_OAUTH_CLIENT_SECRET"),
		setFromEnv(&config.Receipts.OAuth.Scopes, "RECEIPTS_OAUTH_SCOPES"),
		setFromEnv(&config.Redis.Enable, "REDIS_ENABLE"),
		setFromEnv(&config.Redis.Addr, "REDIS_ADDR"),
		setFromEnv(&config.Redis.Password, "REDIS_PASSWORD"),
		setFromEnv(&config.Redis.DB, "REDIS_DB"),
		setFromEnv(&config.Redis.KeyPrefix, "REDIS_KEY_PREFIX"),
		setFromEnv(&config.Redis.TTL, "REDIS_TTL"),
	)

	for _, opt := range options {
		opt(&config)
	}

	return config, err
}

func LoadEnv(environment ...string) error {
	filenames := []string{
		".env.local",
		".env",
	}

	env := getEnv("ENVIRONMENT", DefaultConfig().Environment)
	if len(environment) > 0 {
		env = environment[0]
	}

	if env != "" {
		file := ".env." + env + ".local"
		filenames = append([]string{file}, filenames...)
	}

	var errs error

	for _, filename := range filenames {
		err := loadEnvFile(filename)
		if err != nil {
			errs = errors.Join(
				errs,
				fmt.Errorf("error loading %s: %w", filename, err),
			)
		}
	}

	return errs
}
