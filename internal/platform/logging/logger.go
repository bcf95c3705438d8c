// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace is below debug and only shown when explicitly requested.
const LevelTrace = slog.Level(-8)

// Config holds logging configuration.
type Config struct {
	Level   string // trace, debug, info, warn, error
	Format  string // json, text, pretty
	Service string // service name for default attrs
	Version string // service version for default attrs
	File    FileConfig
}

// FileConfig configures an additional rolling JSON log file.
type FileConfig struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New creates a new configured slog.Logger writing to stdout.
func New(cfg *Config) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a new configured slog.Logger with a custom writer.
// Secrets are redacted in every format. When cfg.File is enabled, records
// are also written as JSON to a lumberjack-rotated file.
func NewWithWriter(cfg *Config, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	replace := NewReplaceAttr()
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: nameTraceLevel(replace),
	}

	var handler slog.Handler

	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "pretty":
		handler = newRedactingHandler(log.NewWithOptions(w, log.Options{
			Level:           slogToCharmLevel(level),
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Prefix:          cfg.Service,
		}), replace)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	if cfg.File.Enabled && cfg.File.Path != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
		handler = newFanoutHandler(handler, slog.NewJSONHandler(file, opts))
	}

	return slog.New(handler).With(
		slog.String("service_name", cfg.Service),
		slog.String("service_version", cfg.Version),
	)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// nameTraceLevel renders LevelTrace as "TRACE" instead of "DEBUG-4", then applies next.
func nameTraceLevel(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.LevelKey {
			if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
				return slog.String(slog.LevelKey, "TRACE")
			}
		}

		return next(groups, a)
	}
}

// slogToCharmLevel maps an slog level onto the nearest charm level.
func slogToCharmLevel(level slog.Level) log.Level {
	switch {
	case level < slog.LevelInfo:
		return log.DebugLevel
	case level < slog.LevelWarn:
		return log.InfoLevel
	case level < slog.LevelError:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

// redactingHandler applies a ReplaceAttr function before delegating.
// The charm handler has no ReplaceAttr hook of its own.
type redactingHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func newRedactingHandler(next slog.Handler, replace func([]string, slog.Attr) slog.Attr) *redactingHandler {
	return &redactingHandler{next: next, replace: replace}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.replace(h.groups, a)
	}

	return &redactingHandler{next: h.next.WithAttrs(redacted), replace: h.replace, groups: h.groups}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string{}, h.groups...), name)
	return &redactingHandler{next: h.next.WithGroup(name), replace: h.replace, groups: groups}
}
