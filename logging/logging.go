package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/0xalexb/hjarta-config/validation"
)

const (
	// FormatJSON writes one JSON object per record.
	FormatJSON = "json"
	// FormatText writes key=value records.
	FormatText = "text"
)

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	Level  string `config:"level"`
	Format string `config:"format"`
}

// SetDefaults sets the level to info and the format to JSON when empty.
func (c *LoggerConfig) SetDefaults() bool {
	changed := false

	if c.Level == "" {
		c.Level = "info"
		changed = true
	}

	if c.Format == "" {
		c.Format = FormatJSON
		changed = true
	}

	return changed
}

// NewLogger creates a new slog.Logger with the specified output.
// The level is parsed from the config; defaults to INFO if invalid or empty.
// The handler is JSON unless the format is "text".
func NewLogger(config LoggerConfig, w io.Writer) *slog.Logger {
	options := &slog.HandlerOptions{
		AddSource:   false,
		Level:       parseLevel(config.Level),
		ReplaceAttr: nil,
	}

	if strings.EqualFold(config.Format, FormatText) {
		return slog.New(slog.NewTextHandler(w, options))
	}

	return slog.New(slog.NewJSONHandler(w, options))
}

// Finding renders a configuration finding as a "finding" group.
func Finding(finding validation.Error) slog.Attr {
	attrs := []any{
		slog.String("level", finding.Level.String()),
		slog.String("kind", finding.Kind.String()),
		slog.String("message", finding.Message()),
	}

	if finding.Path != "" {
		attrs = append(attrs, slog.String("path", finding.Path))
	}

	if finding.Source != "" {
		attrs = append(attrs, slog.String("source", finding.Source))
	}

	return slog.Group("finding", attrs...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
