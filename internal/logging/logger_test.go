package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"progress/internal/logging"
)

func newBuffered(t *testing.T, level, format string, color bool) (*bytes.Buffer, func(msg string, args ...any), func(msg string, args ...any)) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: level, Format: format, Writer: &buf, Color: &color})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return &buf, logger.With("component", "entries").Info, logger.Debug
}

func TestConsoleFormat(t *testing.T) {
	buf, info, _ := newBuffered(t, "info", "console", false)
	info("entry created", "week_number", 3, "id", "a b", "error", errors.New("boom"))

	line := buf.String()
	for _, want := range []string{"INFO", "entries: entry created", "week_number=3", `id="a b"`, "error=boom"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component should be a prefix, got %q", line)
	}
	if strings.Contains(line, "\033[") {
		t.Errorf("unexpected colour codes in %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Errorf("expected no caller information in info logs, got %q", line)
	}
}

func TestConsoleColor(t *testing.T) {
	buf, info, _ := newBuffered(t, "info", "console", true)
	info("hello")
	if !strings.Contains(buf.String(), "\033[") {
		t.Fatalf("expected colour codes, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	buf, _, debug := newBuffered(t, "info", "console", false)
	debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level, got %q", buf.String())
	}

	buf, _, debug = newBuffered(t, "debug", "console", false)
	debug("shown")
	if !strings.Contains(buf.String(), "shown") || !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected debug line with caller, got %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	buf, info, _ := newBuffered(t, "info", "json", false)
	info("entry deleted", "rows", 1)

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if payload["level"] != "info" || payload["msg"] != "entry deleted" || payload["component"] != "entries" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNop(t *testing.T) {
	logging.NewNop().Error("discarded")
}
