package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Writer:      &buf,
		Environment: "production",
		Level:       slog.LevelInfo,
	})

	log.Info("import finished", "inserted", 3, "updated", 1)

	out := buf.String()
	if !strings.Contains(out, `"msg":"import finished"`) {
		t.Errorf("expected JSON output, got: %s", out)
	}
	if !strings.Contains(out, `"inserted":3`) {
		t.Errorf("expected inserted attribute, got: %s", out)
	}
}

func TestNew_PrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Writer:      &buf,
		Environment: "development",
		Level:       slog.LevelDebug,
	})

	log.Debug("watching drop folder", "path", "/tmp/import")

	out := buf.String()
	if !strings.Contains(out, "watching drop folder") {
		t.Errorf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, "path=/tmp/import") {
		t.Errorf("expected key=value attribute, got: %s", out)
	}
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Writer: &buf,
		Format: formatPretty,
		Level:  slog.LevelWarn,
	})

	log.Info("should be filtered")
	log.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info message should have been filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing from output")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: formatJSON})

	log.WithError(errTest).Error("export failed")

	if !strings.Contains(buf.String(), `"error":"disk full"`) {
		t.Errorf("expected error attribute, got: %s", buf.String())
	}
}

var errTest = errString("disk full")

type errString string

func (e errString) Error() string { return string(e) }
