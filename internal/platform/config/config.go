// Package config loads and validates the service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults applied before any file or environment variable.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20
	DefaultRequestTimeout = 30 * time.Second

	// DefaultAuthSecret is the development signing key. prod refuses it.
	DefaultAuthSecret = "YourLongerSecretKeyHereThatIs256BitsLong" //nolint:gosec // development default, warned about at startup
	DefaultAuthTTL    = 30 * time.Minute

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28
)

// DefaultDir is where Load looks for base.yaml and the profile file.
const DefaultDir = "configs"

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"      validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"min=0"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"       validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"   validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"    validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig contains the token and login settings.
// Username and Password form the single accepted credential pair.
type AuthConfig struct {
	Secret   string        `koanf:"secret"   validate:"required,min=32"`
	Issuer   string        `koanf:"issuer"   validate:"required"`
	Audience string        `koanf:"audience" validate:"required"`
	TTL      time.Duration `koanf:"ttl"      validate:"required,min=1s"`
	Username string        `koanf:"username" validate:"required"`
	Password string        `koanf:"password" validate:"required"`
	Role     string        `koanf:"role"     validate:"required"`
}

// UsesDefaultSecret reports whether the signing key is still the development default.
func (a *AuthConfig) UsesDefaultSecret() bool {
	return a.Secret == DefaultAuthSecret
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "wine-catalog",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,
		"server.request_timeout":  DefaultRequestTimeout.String(),

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "wine-catalog",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"auth.secret":   DefaultAuthSecret,
		"auth.issuer":   "YourIssuer",
		"auth.audience": "YourAudience",
		"auth.ttl":      DefaultAuthTTL.String(),
		"auth.username": "string",
		"auth.password": "string",
		"auth.role":     "User",
	}
}

// envPrefix marks environment variables that override configuration.
const envPrefix = "APP_"

// Option adjusts how Load finds its files.
type Option func(*loader)

type loader struct {
	dir string
}

// WithDir reads base.yaml and the profile file from dir instead of DefaultDir.
func WithDir(dir string) Option {
	return func(l *loader) { l.dir = dir }
}

// Load layers, lowest to highest: defaults, <dir>/base.yaml,
// <dir>/<profile>.yaml, then APP_* environment variables. Missing files are
// skipped.
//
// APP_SERVER_REQUEST_TIMEOUT sets server.request_timeout: variables are
// matched against the known keys first, so keys containing underscores can
// be overridden.
func Load(profile string, opts ...Option) (*Config, error) {
	l := loader{dir: DefaultDir}
	for _, opt := range opts {
		opt(&l)
	}

	k := koanf.New(".")
	defs := defaults()

	if err := k.Load(confmap.Provider(defs, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	layers := []string{"base"}
	if profile != "" {
		layers = append(layers, profile)
	}

	for _, name := range layers {
		path := filepath.Join(l.dir, name+".yaml")
		if err := loadFileIfExists(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(defs)), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_LOG_FILE_MAX_SIZE to log.file.max_size using the
// known keys. Unknown variables fall back to replacing every underscore.
func envKeyMapper(known map[string]any) func(string) string {
	index := make(map[string]string, len(known))
	for key := range known {
		index[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name string) string {
		name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key, ok := index[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
