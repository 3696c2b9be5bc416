// Package logging builds the process-wide zerolog logger from
// configuration. Components receive a child logger by value and tag it with
// their own component field.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger settings.
type Config struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	// Format is "console" for human-readable output or "json" for
	// machine-readable lines.
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
}

// New returns a configured root logger writing to stderr.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
