package core

import "time"

func WithEnvironment(environment string) func(*Config) {
	return func(c *Config) {
		c.Environment = environment
	}
}

func WithLogLevel(level string) func(*Config) {
	return func(c *Config) {
		c.LogLevel = level
	}
}

func WithReceiptsBaseURL(baseURL string) func(*Config) {
	return func(c *Config) {
		c.Receipts.BaseURL = baseURL
	}
}

func WithReceiptsTimeout(timeout time.Duration) func(*Config) {
	return func(c *Config) {
		c.Receipts.Timeout = timeout
	}
}

func WithReceiptsAuthToken(token string) func(*Config) {
	return func(c *Config) {
		c.Receipts.AuthToken = token
	}
}

func WithReceiptsOAuth(tokenURL, clientID, clientSecret string) func(*Config) {
	return func(c *Config) {
		c.Receipts.OAuth.TokenURL = tokenURL
		c.Receipts.OAuth.ClientID = clientID
		c.Receipts.OAuth.ClientSecret = clientSecret
	}
}

func WithOtlpEndpoint(endpoint string) func(*Config) {
	return func(c *Config) {
		c.Otel.OtlpExporter.Endpoint = endpoint
	}
}

func WithOtlpInsecure(insecure bool) func(*Config) {
	return func(c *Config) {
		c.Otel.OtlpExporter.Insecure = insecure
	}
}

func WithOtelDisable(value ...bool) func(*Config) {
	val := true
	if len(value) > 0 {
		val = value[0]
	}

	return func(c *Config) {
		c.Otel.Disable = val
	}
}

func WithRedisEnable(value ...bool) func(*Config) {
	val := true
	if len(value) > 0 {
		val = value[0]
	}

	return func(c *Config) {
		c.Redis.Enable = val
	}
}

func WithRedisAddr(addr string) func(*Config) {
	return func(c *Config) {
		c.Redis.Addr = addr
	}
}

func WithRedisPassword(pw string) func(*Config) {
	return func(c *Config) {
		c.Redis.Password = pw
	}
}

func WithRedisDB(db int) func(*Config) {
	return func(c *Config) {
		c.Redis.DB = db
	}
}

func WithRedisTTL(ttl time.Duration) func(*Config) {
	return func(c *Config) {
		c.Redis.TTL = ttl
	}
}
