// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a go-flags option group.
type Logger struct {
	Level  string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log format" choice:"text" choice:"json" default:"text"`
	File   string `long:"log-file"   env:"LOG_FILE"   description:"Write logs to file instead of stderr"`
}

// Setup installs the global logger. It returns a close function for the
// log file, a no-op when logging to stderr.
func (l *Logger) Setup() (func() error, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stderr
	closeFn := func() error { return nil }

	if l.File != "" {
		f, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("can't open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	if l.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.DateTime,
			NoColor:    l.File != "",
		}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	return closeFn, nil
}
