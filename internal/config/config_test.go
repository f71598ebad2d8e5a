package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigFileEnvVar, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.PlayerCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.GeoTimeout)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "port: 9000\nlog_level: debug\nsite_url: https://file.example\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv(ConfigFileEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("GEO_TIMEOUT", "2s")
	t.Setenv("SMTP_TLS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "https://file.example", cfg.SiteURL)
	assert.Equal(t, 2*time.Second, cfg.GeoTimeout)
	assert.False(t, cfg.SMTPTLS)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(ConfigFileEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no database", func(c *Config) { c.DatabaseURL = "" }, true},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"smtp port checked when host set", func(c *Config) { c.SMTPHost = "mail"; c.SMTPPort = 0 }, true},
		{"smtp port ignored without host", func(c *Config) { c.SMTPPort = 0 }, false},
		{"zero geo timeout", func(c *Config) { c.GeoTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
