package obs

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitLoggerSetsLevel(t *testing.T) {
	InitLogger("error")
	defer InitLogger("info")
	if Logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatalf("expected warn disabled at error level")
	}
	if !Logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("expected error enabled")
	}
}
