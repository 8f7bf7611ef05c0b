package logger

import (
	"os"
	"strings"
	"time"

	"Finledger/config"

	"github.com/rs/zerolog"
)

var log zerolog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configura o logger global conforme o ambiente.
// Em desenvolvimento a saída é legível no console; em produção é JSON puro.
func Init(cfg *config.Config) {
	level := parseLevel(cfg.App.LogLevel)
	zerolog.SetGlobalLevel(level)

	if cfg.App.Environment == "development" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log = zerolog.New(output).With().Timestamp().Logger()
		return
	}

	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
