package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.GoogleEnabled())
	assert.True(t, cfg.UsesDefaultSessionSecret())
}

func TestConfig_UsesDefaultSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "deploy-specific")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.UsesDefaultSessionSecret())
}

func TestConfig_PersistentStore(t *testing.T) {
	tests := []struct {
		driver, dsn string
		want        bool
	}{
		{DriverMongo, "", true},
		{DriverPostgres, "host=localhost", true},
		{DriverSQLite, "ratlist.db", true},
		{DriverSQLite, ":memory:", false},
		{DriverSQLite, "file:x?mode=memory&cache=shared", false},
		{DriverMemory, "", false},
	}
	for _, tt := range tests {
		cfg := &Config{StoreDriver: tt.driver, DatabaseDSN: tt.dsn}
		assert.Equal(t, tt.want, cfg.PersistentStore(), "%s %q", tt.driver, tt.dsn)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", DriverSQLite)
	t.Setenv("CLIENT_ID", "client")
	t.Setenv("CLIENT_SECRET", "s3cr3t-value")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.True(t, cfg.GoogleEnabled())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.NotContains(t, cfg.String(), "s3cr3t-value")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported STORE_DRIVER")
}
