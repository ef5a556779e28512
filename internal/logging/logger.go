package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a structured logger with sane defaults. Development gets the
// human console writer; production gets raw JSON lines.
func New(appName, env string) zerolog.Logger {
	if env == "production" {
		return zerolog.New(os.Stdout).With().
			Timestamp().
			Str("app", appName).
			Str("env", env).
			Logger()
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339Nano,
	}
	return zerolog.New(output).With().
		Timestamp().
		Str("app", appName).
		Str("env", env).
		Logger()
}
