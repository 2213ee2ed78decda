package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"none", slog.LevelError},
		{"", slog.LevelError},
		{"bogus", slog.LevelError},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestWriterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lox.log")

	w := OpenWriter(path)
	defer w.Close()

	if _, err := w.Write([]byte("first\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rotated := path + ".bak"
	if err := os.Rename(path, rotated); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if err := w.Reopen(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := w.Write([]byte("second\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	old, _ := os.ReadFile(rotated)
	current, _ := os.ReadFile(path)
	if string(old) != "first\n" {
		t.Errorf("rotated file: expected %q, got %q", "first\n", old)
	}
	if string(current) != "second\n" {
		t.Errorf("new file: expected %q, got %q", "second\n", current)
	}
}

func TestSetupFiltersByLevel(t *testing.T) {
	var sb strings.Builder
	previous := slog.Default()
	defer slog.SetDefault(previous)

	Setup(&sb, "warn")
	slog.Info("hidden")
	slog.Warn("shown", slog.String("k", "v"))

	out := sb.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record must be filtered: %q", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("expected a JSON warn record, got %q", out)
	}
}
