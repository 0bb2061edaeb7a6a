// Package logger configures the process-wide zerolog logger.
//
//	logger.Init(logger.Config{Level: "debug", Format: "console"})
//	log.Info().Str("addr", addr).Msg("server starting")
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Level: trace, debug, info, warn, error. Default info.
	Level string
	// Format: json or console. Default json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// Init replaces the global zerolog logger (github.com/rs/zerolog/log.Logger).
func Init(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	l := zerolog.New(out).With().Timestamp().Str("service", "foodgram").Logger()
	log.Logger = l
	zerolog.DefaultContextLogger = &log.Logger
	return l
}

// ParseLevel falls back to info for empty or unknown values.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Ctx returns the request-scoped logger stored by the request logger
// middleware, or the global one.
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
