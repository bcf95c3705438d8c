package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadIsolated loads from an empty directory so only defaults and the
// environment apply.
func loadIsolated(t *testing.T, profile string) *Config {
	t.Helper()

	cfg, err := Load(profile, WithDir(t.TempDir()))
	require.NoError(t, err)

	return cfg
}

func writeYAML(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadIsolated(t, "")

	assert.Equal(t, AppConfig{Name: "wine-catalog", Version: "dev", Environment: "local"}, cfg.App)
	assert.Equal(t, ServerConfig{
		Port:            DefaultServerPort,
		Host:            "0.0.0.0",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxRequestSize:  DefaultMaxRequestSize,
		RequestTimeout:  DefaultRequestTimeout,
	}, cfg.Server)
	assert.Equal(t, LogConfig{
		Level:  "info",
		Format: "json",
		File: LogFileConfig{
			Path:       "./logs/app.log",
			MaxSizeMB:  DefaultLogFileMaxSizeMB,
			MaxBackups: DefaultLogFileMaxBackups,
			MaxAgeDays: DefaultLogFileMaxAgeDays,
			Compress:   true,
		},
	}, cfg.Log)
	assert.Equal(t, TelemetryConfig{ServiceName: "wine-catalog", SamplingRate: 1.0, Insecure: true}, cfg.Telemetry)
	assert.Equal(t, AuthConfig{
		Secret:   DefaultAuthSecret,
		Issuer:   "YourIssuer",
		Audience: "YourAudience",
		TTL:      DefaultAuthTTL,
		Username: "string",
		Password: "string",
		Role:     "User",
	}, cfg.Auth)

	assert.True(t, cfg.Auth.UsesDefaultSecret())
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(*testing.T, *Config)
	}{
		{
			name: "single word keys",
			env:  map[string]string{"APP_SERVER_PORT": "9090", "APP_LOG_LEVEL": "warn"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Log.Level)
			},
		},
		{
			name: "keys with underscores",
			env: map[string]string{
				"APP_SERVER_REQUEST_TIMEOUT":  "5s",
				"APP_SERVER_MAX_REQUEST_SIZE": "2048",
				"APP_LOG_FILE_MAX_SIZE":       "7",
				"APP_TELEMETRY_SAMPLING_RATE": "0.25",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
				assert.Equal(t, int64(2048), cfg.Server.MaxRequestSize)
				assert.Equal(t, 7, cfg.Log.File.MaxSizeMB)
				assert.InDelta(t, 0.25, cfg.Telemetry.SamplingRate, 1e-9)
			},
		},
		{
			name: "booleans",
			env:  map[string]string{"APP_TELEMETRY_ENABLED": "true", "APP_LOG_FILE_COMPRESS": "false"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Telemetry.Enabled)
				assert.False(t, cfg.Log.File.Compress)
			},
		},
		{
			name: "signing key and ttl",
			env:  map[string]string{"APP_AUTH_SECRET": "a-much-better-secret-for-production-use", "APP_AUTH_TTL": "5m"},
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Auth.UsesDefaultSecret())
				assert.Equal(t, 5*time.Minute, cfg.Auth.TTL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			tt.check(t, loadIsolated(t, ""))
		})
	}
}

func TestLoad_FileLayers(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "base", "server:\n  port: 7000\nlog:\n  level: debug\n")
	writeYAML(t, dir, "qa", "app:\n  environment: qa\nserver:\n  port: 7100\n")

	t.Run("profile overrides base", func(t *testing.T) {
		cfg, err := Load("qa", WithDir(dir))
		require.NoError(t, err)

		assert.Equal(t, "qa", cfg.App.Environment)
		assert.Equal(t, 7100, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("environment overrides files", func(t *testing.T) {
		t.Setenv("APP_SERVER_PORT", "7200")

		cfg, err := Load("qa", WithDir(dir))
		require.NoError(t, err)

		assert.Equal(t, 7200, cfg.Server.Port)
	})

	t.Run("missing profile keeps base", func(t *testing.T) {
		cfg, err := Load("nonexistent", WithDir(dir))
		require.NoError(t, err)

		assert.Equal(t, 7000, cfg.Server.Port)
		assert.Equal(t, "local", cfg.App.Environment)
	})
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "base", "server: [unclosed\n")

	_, err := Load("", WithDir(dir))

	require.Error(t, err)
	assert.ErrorContains(t, err, "base.yaml")
}

func TestEnvKeyMapper(t *testing.T) {
	mapKey := envKeyMapper(map[string]any{"server.request_timeout": "", "auth.secret": ""})

	tests := map[string]string{
		"APP_SERVER_REQUEST_TIMEOUT": "server.request_timeout",
		"APP_AUTH_SECRET":            "auth.secret",
		"APP_SOME_NEW_KEY":           "some.new.key",
	}

	for in, want := range tests {
		assert.Equal(t, want, mapKey(in), in)
	}
}
