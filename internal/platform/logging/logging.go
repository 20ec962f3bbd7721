package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog for the process: human-readable console output
// and debug level in development, JSON at info level everywhere else.
func Setup(environment string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if environment == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return SetupWithWriter(environment, w)
}

// SetupWithWriter is Setup with an explicit destination.
func SetupWithWriter(environment string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if environment == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).With().Timestamp().Logger().Level(level)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
	return logger
}
