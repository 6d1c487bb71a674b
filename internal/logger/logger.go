// Package logger builds the zerolog logger used for diagnostics.
package logger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Config selects the diagnostics level and destination.
type Config struct {
	Out   io.Writer
	Level string
	Debug bool
}

// New returns a console logger tagged with tool=fitslic. An unknown level
// falls back to warn; the returned error reports it.
func New(cfg Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	w := zerolog.ConsoleWriter{Out: cfg.Out, NoColor: true, TimeFormat: "15:04:05"}
	l := zerolog.New(w).Level(level).With().Timestamp().Str("tool", "fitslic").Logger()
	return l, err
}
