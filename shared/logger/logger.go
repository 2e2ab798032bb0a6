package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a service logger. Development uses a human readable console writer;
// every other environment logs JSON to stdout.
func New(env, service string) *zerolog.Logger {
	return newLogger(env, service, os.Stdout)
}

func newLogger(env, service string, out io.Writer) *zerolog.Logger {
	level := zerolog.InfoLevel
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	return &logger
}
