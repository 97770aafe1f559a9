package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/tailored-agentic-units/statewire/observability"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `json:"level,omitempty" env:"LEVEL"`
	Format string `json:"format,omitempty" env:"FORMAT"`
	// Observer names the observability factory that receives events.
	Observer string `json:"observer,omitempty" env:"OBSERVER"`
}

// DefaultLogConfig logs at info level as text.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info", Format: LogFormatText, Observer: "slog"}
}

// Merge applies non-zero values from source into c.
func (c *LogConfig) Merge(source *LogConfig) {
	if source.Level != "" {
		c.Level = source.Level
	}
	if source.Format != "" {
		c.Format = source.Format
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// Sanitize lowercases the fields and replaces unknown values with the
// defaults.
func (c *LogConfig) Sanitize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Level = "info"
	}

	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format != LogFormatJSON {
		c.Format = LogFormatText
	}

	c.Observer = strings.ToLower(strings.TrimSpace(c.Observer))
	if c.Observer == "" {
		c.Observer = "slog"
	}
}

// SlogLevel returns the configured level.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewObserver builds the configured observer around logger.
func (c LogConfig) NewObserver(logger *slog.Logger) (observability.Observer, error) {
	return observability.New(c.Observer, logger)
}

// NewLogger builds a slog.Logger writing to w in the configured format.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
