package logging

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const TimeFormat = "2006-01-02_15:04:05"

const filePerms = 0o666

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(raw string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("logging: unknown level %q", raw)
	}
}

// New builds a console-formatted logger with caller information.
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: TimeFormat, NoColor: true}).
		Level(level).
		With().Timestamp().Caller().
		Logger()
}

// Setup points the global logger at path. The terminal belongs to the UI,
// so logs never go to stdout. Callers close the returned file on exit.
func Setup(path, level string) (zerolog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	logger := New(f, lvl)
	log.Logger = logger
	return logger, f, nil
}
