package core

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	err := loadEnvFile(".env.example")

	require.NoErrorf(t, err, `There was an error loading ".env.example": %v`, err)
}

func TestLoadEnvFile_Missing(t *testing.T) {
	err := loadEnvFile(".env.does-not-exist")

	require.NoError(t, err, "a missing env file is not an error")
}

func TestLoadEnv(t *testing.T) {
	err := LoadEnv("os")

	require.NoErrorf(t, err, "LoadEnv should not return an error. Got %v", err)
}

func TestGetEnv_KeyValue(t *testing.T) {
	t.Setenv("xyz", "abc")

	result := getEnv("xyz", "development")

	expected := "abc"

	assert.Equalf(t, expected, result, `getEnv("xyz", "development) = %q; expected: %q`, result, expected)
}

func TestGetEnv_FallbackValue(t *testing.T) {
	t.Setenv("xyz", "")

	result := getEnv("xyz", "development")

	expected := "development"

	assert.Equalf(t, expected, result, `getEnv("xyz", "development") = %q; expected: %q`, result, expected)
}

func TestSetFromEnv_Types(t *testing.T) {
	t.Setenv("S", "hello")
	t.Setenv("B", "true")
	t.Setenv("I", "42")
	t.Setenv("D", "1500ms")

	var (
		s string
		b bool
		i int
		d time.Duration
	)

	require.NoError(t, setFromEnv(&s, "S"))
	require.NoError(t, setFromEnv(&b, "B"))
	require.NoError(t, setFromEnv(&i, "I"))
	require.NoError(t, setFromEnv(&d, "D"))

	assert.Equal(t, "hello", s)
	assert.True(t, b)
	assert.Equal(t, 42, i)
	assert.Equal(t, 1500*time.Millisecond, d)
}

func TestSetFromEnv_UnsetLeavesValue(t *testing.T) {
	t.Setenv("UNSET_KEY", "")

	v := "keep"
	require.NoError(t, setFromEnv(&v, "UNSET_KEY"))

	assert.Equal(t, "keep", v)
}

func TestSetFromEnv_BadValues(t *testing.T) {
	t.Setenv("B", "nope")
	t.Setenv("I", "four")
	t.Setenv("D", "soon")

	var (
		b bool
		i int
		d time.Duration
	)

	assert.Error(t, setFromEnv(&b, "B"))
	assert.Error(t, setFromEnv(&i, "I"))
	assert.Error(t, setFromEnv(&d, "D"))
}

func TestConfig_IsProd(t *testing.T) {
	var nilCfg *Config
	assert.False(t, nilCfg.IsProd())

	cfg := NewConfig(WithEnvironment("production"))
	assert.True(t, cfg.IsProd())

	cfg = NewConfig()
	assert.False(t, cfg.IsProd())
}

func TestConfig_Level(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, expected := range tests {
		cfg := NewConfig(WithLogLevel(in))
		assert.Equalf(t, expected, cfg.Level(), "LogLevel %q", in)
	}
}
