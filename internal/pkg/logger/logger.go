package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	// Sensible default so packages can log before Init runs (tests, tools).
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init configures the process-wide logger. Development mode gets a human
// readable console writer, production emits JSON lines.
func Init(mode, level string) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if mode == "dev" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		log = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
		return
	}

	log = zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

// L returns the process-wide logger
func L() *zerolog.Logger {
	return &log
}
