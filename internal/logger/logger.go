// Package logger configures the process-wide zerolog logger. Handlers report
// failures through JSON error responses; infrastructure components (startup,
// queue consumer, websocket hub) log through this logger instead.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger writing to stderr. In the "dev" environment
// output is human-readable console text; everywhere else it is JSON lines.
// LOG_LEVEL overrides the default "info" level.
func New(env string) zerolog.Logger {
	level := zerolog.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}
	var logger zerolog.Logger
	if env == "dev" {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger = zerolog.New(out)
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Str("service", "studxus-api").Logger()
}
