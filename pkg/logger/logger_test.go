package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetBeforeInitPanics(t *testing.T) {
	prev := global
	global = nil
	defer func() {
		global = prev
		if recover() == nil {
			t.Error("Get did not panic before Init")
		}
	}()
	Get()
}

func TestLoggerWriterAndLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Debug(ctx, "hidden")
	Named("clock").Info(ctx, "started", Int("elapsed", 12), Bool("second_half", false), Int64("anchor", 1700000000000))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	for _, want := range []string{"msg=started", "clock.elapsed=12", "clock.second_half=false", "clock.anchor=1700000000000", "logger_test.go:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	Get().Debug(ctx, "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug line missing after SetLevelString(debug)")
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf), WithLevel("warn")); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	Get().Info(context.Background(), "quiet")
	Get().Warn(context.Background(), "loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Errorf("unexpected output at warn level: %q", buf.String())
	}

	if err := Init(WithWriter(&buf), WithLevel("chatty")); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := WithFields(context.Background(), String("endpoint", "goals"))
	ctx = WithFields(ctx, String("method", "POST"))
	Get().Warn(ctx, "rejected", String("op", "record_goal"))
	Get().Info(context.Background(), "plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	for _, want := range []string{"endpoint=goals", "method=POST", "op=record_goal"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line %q does not contain %q", lines[0], want)
		}
	}
	if strings.Contains(lines[1], "endpoint=") {
		t.Errorf("context fields leaked into %q", lines[1])
	}
}

func TestLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "touchline.log")
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf), WithFile(path)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Warn(context.Background(), "persist failed", String("op", "save_all"))
	if err := Sync(); err != nil {
		t.Fatalf("failed to sync logger: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "op=save_all") {
		t.Errorf("file output %q missing field", data)
	}
	if !strings.Contains(buf.String(), "persist failed") {
		t.Errorf("writer output %q missing line", buf.String())
	}
}
