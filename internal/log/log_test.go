package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerTagsComponentAndHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Component: ComponentLedger, Output: &buf})

	l.Info("hidden")
	l.Warn("shown", FieldEntryID, "abc")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "entry_id=abc") {
		t.Fatalf("missing fields: %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentExport).ErrorContext(context.Background(), "boom")
	if !strings.Contains(buf.String(), "component=export") {
		t.Fatalf("component not replaced: %s", buf.String())
	}
}

func TestRequestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: slog.LevelDebug, Output: &buf})

	ctx := WithLogger(context.Background(), base.With(FieldRequestID, "req-1"))
	FromContext(ctx).Info("inside")

	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Fatalf("request id missing: %s", buf.String())
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatal("fallback logger should report unknown component")
	}
}

func TestStructuredLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelDebug, Output: &buf}))
	r := httptest.NewRequest(http.MethodPost, "/api/entries?x=1", nil)

	sl.LogHTTPEnd(context.Background(), r, 422, 3, "10.0.0.1")
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "success=false") {
		t.Fatalf("unexpected record: %s", buf.String())
	}

	buf.Reset()
	sl.LogEntryAdded(context.Background(), "id", "Coffee", 4.5, "Food & Dining", "USD")
	if !strings.Contains(buf.String(), "operation=add") || !strings.Contains(buf.String(), "amount=4.5") {
		t.Fatalf("unexpected record: %s", buf.String())
	}

	buf.Reset()
	sl.LogError(context.Background(), "commit failed", errors.New("disk"), ComponentLedger, OpCommit, nil)
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "error=disk") {
		t.Fatalf("unexpected record: %s", buf.String())
	}
}
