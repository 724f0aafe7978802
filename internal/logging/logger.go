package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Fields map[string]interface{}

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	logger.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Error logs an error message and includes the error in the fields.
func Error(msg string, err error, fields Fields) {
	logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	logger.Fatal().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}
