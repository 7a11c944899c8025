package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 1440, cfg.JWT.AccessTokenExpiryMinutes)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", "15")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", "soon")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_ACCESS_TOKEN_EXPIRY_MINUTES")

	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", "10")
	t.Setenv("DB_DRIVER", "mysql")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestConnectDBSQLite(t *testing.T) {
	cfg := &Config{}
	cfg.App.Env = "test"
	cfg.DB.Driver = DriverSQLite
	cfg.DB.Path = "file::memory:"

	db, err := ConnectDB(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	sqlDB.Close()
}
