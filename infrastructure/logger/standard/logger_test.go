package standard

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewStandardLogger(t *testing.T) {
	logger := NewStandardLogger()

	if logger == nil {
		t.Fatal("NewStandardLogger returned nil")
	}
	if logger.debug == nil || logger.info == nil || logger.warn == nil || logger.error == nil {
		t.Error("level loggers not initialized")
	}
	if logger.min != LevelInfo {
		t.Errorf("min level = %v, want info", logger.min)
	}
}

func TestStandardLogger_FieldsAreSortedKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStandardLoggerWithWriter(&buf, LevelDebug)

	logger.Info("Source attempt", map[string]interface{}{
		"source":     "consumet",
		"outcome":    "success",
		"latency_ms": 42,
	})

	out := buf.String()
	if !strings.Contains(out, "[INFO] ") {
		t.Errorf("missing level prefix: %q", out)
	}
	if !strings.Contains(out, `Source attempt latency_ms=42 outcome="success" source="consumet"`) {
		t.Errorf("unexpected line: %q", out)
	}
}

func TestStandardLogger_LevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStandardLoggerWithWriter(&buf, LevelWarn)

	logger.Debug("debug line", nil)
	logger.Info("info line", nil)
	logger.Warn("warn line", nil)
	logger.Error("error line", map[string]interface{}{"code": 500})

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Errorf("lines below threshold were written: %q", out)
	}
	if !strings.Contains(out, "[WARN] ") || !strings.Contains(out, "error line code=500") {
		t.Errorf("expected warn and error lines: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
