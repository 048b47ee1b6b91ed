package core

import "time"

type Config struct {
	Environment string
	LogLevel    string
	Otel        OtelConfig
	Receipts    ReceiptsConfig
	Redis       RedisConfig
}

type OtlpConfig struct {
	Endpoint string
	Insecure bool
}

type OtelConfig struct {
	OtlpExporter OtlpConfig
	Disable      bool
}

// ReceiptsConfig points the client at a receipt processing API.
type ReceiptsConfig struct {
	BaseURL string
	// Per call timeout. Zero leaves it to the transport.
	Timeout time.Duration
	// Optional bearer token for deployments behind a gateway.
	AuthToken string
	OAuth     OAuthConfig
}

// OAuthConfig is a client credentials grant, used when AuthToken is empty.
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	// Comma separated.
	Scopes string
}

type RedisConfig struct {
	// Enables the run recorder.
	Enable    bool
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}
