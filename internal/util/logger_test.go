package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFiltersBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(LoggerConfig{Level: LevelWarn, Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	l.Infof("should not appear")
	l.Warnf("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("expected Infof to be filtered below LevelWarn, got %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("expected Warnf to be logged, got %q", out)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(LoggerConfig{Level: LevelInfo, Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	l.Infof("hello %s", "world")

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello world"`) {
		t.Errorf("expected a json msg field, got %q", out)
	}
	if !strings.Contains(out, `"level":"INFO"`) {
		t.Errorf("expected a json level field, got %q", out)
	}
}

func TestLoggerTextFormatIncludesLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(LoggerConfig{Level: LevelDebug, Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	l.Errorf("boom")

	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Errorf("expected an [ERROR] tag in text output, got %q", buf.String())
	}
}
