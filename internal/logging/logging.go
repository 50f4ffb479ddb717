// Package logging builds the zerolog loggers used across todomon.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a console logger writing to w at the named level. An empty or
// unknown level means info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	if f, ok := w.(*os.File); !ok || f != os.Stderr {
		output.NoColor = true
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}

// Setup installs a logger as the global zerolog logger and returns it. When
// path is non-empty, output goes to that file (appended) instead of stderr,
// and the returned closer releases it.
func Setup(path, level string) (zerolog.Logger, io.Closer, error) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := New(w, level)
	log.Logger = logger
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
