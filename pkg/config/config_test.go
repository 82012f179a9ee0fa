package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partstack/tenantdb/pkg/config"
)

type testConfig struct {
	Pattern    string        `env:"TEST_TENANT_PATTERN"`
	DefaultDB  string        `env:"TEST_TENANT_DEFAULT_DB" envDefault:"master"`
	SessionTTL time.Duration `env:"TEST_TENANT_SESSION_TTL" envDefault:"720h"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Empty(t, cfg.Pattern)
		assert.Equal(t, "master", cfg.DefaultDB)
		assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	})

	t.Run("reads environment values", func(t *testing.T) {
		t.Setenv("TEST_TENANT_PATTERN", "tenant_%s")
		t.Setenv("TEST_TENANT_DEFAULT_DB", "inventory")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "tenant_%s", cfg.Pattern)
		assert.Equal(t, "inventory", cfg.DefaultDB)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("wraps parse failures", func(t *testing.T) {
		t.Setenv("TEST_TENANT_SESSION_TTL", "not-a-duration")

		var cfg testConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}
