package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is the output format (json, text).
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
	// AddSource adds source file information to log entries.
	AddSource bool
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

// level is shared by every logger New returns, so SetLevel applies to all
// of them at once.
var level = new(slog.LevelVar)

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// New builds a redacting slog logger. An unknown level or format is an
// error rather than a silent fallback.
func New(cfg Config) (*slog.Logger, error) {
	lv := slog.LevelInfo
	if cfg.Level != "" {
		var ok bool
		if lv, ok = levels[strings.ToLower(cfg.Level)]; !ok {
			return nil, fmt.Errorf("logger: unknown level %q", cfg.Level)
		}
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		h = slog.NewJSONHandler(out, opts)
	case "text":
		h = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	level.Set(lv)
	return slog.New(h), nil
}

// SetLevel changes the minimum level of every logger built by New. It
// reports false, leaving the level alone, for an unknown name.
func SetLevel(name string) bool {
	lv, ok := levels[strings.ToLower(name)]
	if ok {
		level.Set(lv)
	}
	return ok
}

// GetLevel returns the current level name: debug, info, warn or error.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}

// ValidLevel reports whether name is a supported log level.
func ValidLevel(name string) bool {
	_, ok := levels[strings.ToLower(name)]
	return ok
}
