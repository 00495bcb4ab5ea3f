package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the process logger.
// APP_ENV=dev (or development) switches to a console writer at debug level.
func NewLogger(env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Str("app", "guest_manual").Logger()
	}
	return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).
		With().Timestamp().Str("app", "guest_manual").Logger()
}
