package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":      "postgres://localhost:5432/grocer",
		"REDIS_URL":         "redis://localhost:6379/0",
		"PORT":              "",
		"POINT_VALUE_CENTS": "",
		"CART_TTL":          "",
	})
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "MXN", cfg.CurrencyCode)
	require.Equal(t, int64(10), cfg.PointValueCents)
	require.Equal(t, 168*time.Hour, cfg.CartTTL)
	require.Equal(t, "grocer", cfg.MetricsNamespace)
	require.False(t, cfg.TracingEnabled)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":      "postgres://localhost:5432/grocer",
		"REDIS_URL":         "redis://localhost:6379/0",
		"PORT":              "9090",
		"POINT_VALUE_CENTS": "25",
		"CART_TTL":          "48h",
		"RATE_LIMIT_MAX":    "60",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, int64(25), cfg.PointValueCents)
	require.Equal(t, 48*time.Hour, cfg.CartTTL)
	require.Equal(t, 60, cfg.RateLimitMax)
}

func TestLoadValidation(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)

	_, err = LoadForTests(map[string]string{
		"DATABASE_URL":      "postgres://localhost:5432/grocer",
		"REDIS_URL":         "redis://localhost:6379/0",
		"POINT_VALUE_CENTS": "-5",
	})
	require.Error(t, err)
}
