package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestCombineSinksCollapses(t *testing.T) {
	if _, ok := combineSinks(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every sink is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := combineSinks(nil, inner); h != inner {
		t.Fatal("expected the only live sink to be returned unwrapped")
	}
}

func TestSinkHandlerRoutesByLevel(t *testing.T) {
	var console, file bytes.Buffer
	h := combineSinks(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(h).With("component", "test")

	logger.Debug("debug only")
	logger.Warn("both")

	if strings.Contains(console.String(), "debug only") {
		t.Fatalf("console received debug record: %q", console.String())
	}
	if !strings.Contains(console.String(), "both") {
		t.Fatalf("console missing warn record: %q", console.String())
	}
	for _, want := range []string{"debug only", "both", `"component":"test"`} {
		if !strings.Contains(file.String(), want) {
			t.Fatalf("file sink missing %q: %q", want, file.String())
		}
	}
}

func TestSinkHandlerEnabled(t *testing.T) {
	h := combineSinks(
		slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info to be disabled when no sink accepts it")
	}
	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("expected warn to be enabled")
	}
}

type failingSink struct{ slog.Handler }

func (failingSink) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestSinkHandlerKeepsWritingAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	h := combineSinks(
		failingSink{slog.NewJSONHandler(&bytes.Buffer{}, nil)},
		slog.NewJSONHandler(&buf, nil),
	)
	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected sink error, got %v", err)
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("second sink did not receive record: %q", buf.String())
	}
}

func TestSinkHandlerWithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := combineSinks(slog.NewJSONHandler(&buf, nil), NoopHandler{})
	slog.New(h).WithGroup("req").Info("grouped", "id", "abc")
	if !strings.Contains(buf.String(), `"req":{"id":"abc"}`) {
		t.Fatalf("expected grouped attrs, got %q", buf.String())
	}
}
