package logger

import (
	"housing/config"
	"housing/shared/constant"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger installs a console logger. Configure replaces it once the configuration is known.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// Configure applies the configured level and, outside development, switches to JSON lines
// tagged with the application name and environment.
func Configure(config *config.Config) {
	Setup(config, os.Stdout)
}

func Setup(config *config.Config, out io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(config.Server.LogLevel))

	if config.Server.Env == constant.ServerEnvDevelopment || config.Server.Env == constant.Empty {
		return
	}

	log.Logger = zerolog.New(out).With().
		Timestamp().
		Str("app", config.App.Name).
		Str("env", config.Server.Env).
		Logger()
}

// ParseLevel falls back to info for empty or unknown levels.
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return defaultLevel
	}

	return parsed
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
