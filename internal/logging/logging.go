package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup creates a zerolog.Logger writing to stderr.
// format "text" uses a human-friendly console writer; anything else emits JSON.
func Setup(format string) zerolog.Logger {
	return New(os.Stderr, format)
}

// New is Setup with an explicit writer.
func New(w io.Writer, format string) zerolog.Logger {
	if format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
