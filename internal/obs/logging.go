// Package obs contains observability utilities such as logging and metrics.
package obs

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the global structured logger used by the service.
//
// It defaults to an info-level JSON logger so packages can log before
// InitLogger runs (tests, one-shot CLI commands).
var Logger = newJSONLogger(slog.LevelInfo)

// InitLogger replaces the global Logger with a JSON handler at the given level.
func InitLogger(level string) {
	Logger = newJSONLogger(ParseLevel(level))
	slog.SetDefault(Logger)
}

// ParseLevel maps a textual level to slog.Level, falling back to info.
func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newJSONLogger(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", "petshop-catalog")
}
