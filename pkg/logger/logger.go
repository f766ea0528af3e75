package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	AGENTS     = "AGENTS"
	HANDLER    = "HANDLER"
	IMAGE      = "IMAGE"
	MIDDLEWARE = "MIDDLEWARE"
	OAUTH      = "OAUTH"
	TTS        = "TTS"
	WORKFLOW   = "WORKFLOW"
)

func getLogLevel() zerolog.Level {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func newWriter(out io.Writer) io.Writer {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return out
}

// Init configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT.
func Init() {
	zerolog.SetGlobalLevel(getLogLevel())
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = zerolog.New(newWriter(os.Stderr)).With().Timestamp().Logger()
}

// For returns a child of the global logger tagged with the given component.
func For(component string) *zerolog.Logger {
	l := log.With().Str("component", component).Logger()
	return &l
}
