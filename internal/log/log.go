// Package log provides structured logging for harden.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// EnvLevel names the environment variable that sets the initial log level.
const EnvLevel = "HARDEN_LOG_LEVEL"

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	logger = zerolog.New(output).
		With().
		Timestamp().
		Logger()

	// Audits print their own results; only warnings reach stderr by default.
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if lvl := os.Getenv(EnvLevel); lvl != "" {
		if level, err := zerolog.ParseLevel(lvl); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	}
}

// SetOutput sets the logger output destination.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// SetLevel sets the global log level.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// SetLevelString parses and applies a level name such as "debug" or "warn".
func SetLevelString(name string) error {
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

// Logger returns the package logger for structured events.
func Logger() *zerolog.Logger {
	return &logger
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	logger.Info().Msgf(format, args...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	logger.Warn().Msgf(format, args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	logger.Error().Msgf(format, args...)
}

// ErrorWithErr logs an error with the error object.
func ErrorWithErr(err error, msg string) {
	logger.Error().Err(err).Msg(msg)
}
