package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestColorHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestColorHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, nil))

	log.Info("import complete", "nodes", 42)

	out := buf.String()
	if !strings.Contains(out, "import complete") {
		t.Errorf("missing message: %q", out)
	}
	if !strings.Contains(out, "nodes=42") {
		t.Errorf("missing attribute: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("missing trailing newline")
	}
}

func TestColorHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, nil)).WithGroup("db").With("uri", "bolt://x")

	log.Info("connected")

	if !strings.Contains(buf.String(), "db.uri=bolt://x") {
		t.Errorf("group prefix missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
