package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "testing")

	cfg := Load()

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 8, cfg.Security.PasswordMinLength)
	assert.False(t, cfg.Security.RequireSpecialChars)
	assert.Equal(t, 3, cfg.Analytics.TopN)
	assert.Empty(t, cfg.Events.AMQPURL)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	require.NotNil(t, cfg.JWT.PrivateKey)
	require.NotNil(t, cfg.JWT.PublicKey)
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsTesting())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "testing")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/ft.db")
	t.Setenv("ANALYTICS_CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000, https://app.example.com")
	t.Setenv("AUTO_MIGRATE", "true")

	cfg := Load()

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 30*time.Second, cfg.Analytics.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, "sqlite:///tmp/ft.db", cfg.Database.MigrationURL())
}

func TestValidate(t *testing.T) {
	t.Setenv("APP_ENV", "testing")
	base := Load()

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"sqlite without path", func(c *Config) { c.Database.Driver = DriverSQLite; c.Database.SQLitePath = "" }},
		{"short passwords", func(c *Config) { c.Security.PasswordMinLength = 6 }},
		{"no avatar size", func(c *Config) { c.Storage.MaxAvatarBytes = 0 }},
		{"no cache", func(c *Config) { c.Analytics.CacheSize = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *base
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatabaseConfig_URLs(t *testing.T) {
	c := DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p@ss", Name: "fin", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p@ss dbname=fin sslmode=disable", c.DSN())
	assert.Equal(t, "postgres://u:p%40ss@db:5432/fin?sslmode=disable", c.MigrationURL())
}

func TestGetEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("FT_INT", "abc")
	t.Setenv("FT_BOOL", "maybe")
	t.Setenv("FT_DUR", "soon")

	assert.Equal(t, 7, getIntEnv("FT_INT", 7))
	assert.True(t, getBoolEnv("FT_BOOL", true))
	assert.Equal(t, time.Minute, getDurationEnv("FT_DUR", time.Minute))
}
