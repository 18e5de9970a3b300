package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ncmconv/internal/history"
	"ncmconv/internal/testsupport"
)

func TestBeginAndComplete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry, err := store.Begin(ctx, "req-1", "/music/a.ncm")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if entry.Status != history.StatusStarted || entry.SourcePath != "/music/a.ncm" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry.Duration() != 0 {
		t.Fatalf("running entry should have zero duration, got %s", entry.Duration())
	}

	if err := store.Complete(ctx, "req-1", "/music/a.flac", "flac"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	got, err := store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != history.StatusCompleted || got.OutputPath != "/music/a.flac" || got.Format != "flac" {
		t.Fatalf("unexpected completed entry: %#v", got)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Fatalf("updated_at %s precedes created_at %s", got.UpdatedAt, got.CreatedAt)
	}
}

func TestTerminalStatusIsFinal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Begin(ctx, "req-2", "/music/b.ncm"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := store.Fail(ctx, "req-2", history.StatusFailed, "transcoder exited with status 3"); err != nil {
		t.Fatalf("Fail failed: %v", err)
	}
	err := store.Complete(ctx, "req-2", "/music/b.flac", "flac")
	if !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound when completing a failed request, got %v", err)
	}
	got, err := store.Get(ctx, "req-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != history.StatusFailed || got.Message != "transcoder exited with status 3" {
		t.Fatalf("unexpected entry: %#v", got)
	}
}

func TestFailRejectsNonFailureStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Begin(ctx, "req-3", "/music/c.ncm"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := store.Fail(ctx, "req-3", history.StatusCompleted, "nope"); err == nil {
		t.Fatal("expected error for completed status")
	}
}

func TestBeginRequiresRequestID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if _, err := store.Begin(context.Background(), " ", "/music/a.ncm"); err == nil {
		t.Fatal("expected error for blank request id")
	}
}

func TestGetMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersAndLimits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		if _, err := store.Begin(ctx, id, "/music/"+id+".ncm"); err != nil {
			t.Fatalf("Begin %s failed: %v", id, err)
		}
	}
	if err := store.Complete(ctx, "a", "/music/a.flac", "flac"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if err := store.Fail(ctx, "b", history.StatusRejected, "invalid magic"); err != nil {
		t.Fatalf("Fail failed: %v", err)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 4 || all[0].RequestID != "d" {
		t.Fatalf("expected newest-first list of 4, got %d (first %q)", len(all), all[0].RequestID)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(limited))
	}

	started, err := store.List(ctx, 0, history.StatusStarted)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(started) != 2 {
		t.Fatalf("expected 2 started entries, got %d", len(started))
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	want := history.HealthSummary{Total: 4, Started: 2, Completed: 1, Rejected: 1}
	if health != want {
		t.Fatalf("unexpected health %+v, want %+v", health, want)
	}
}

func TestClearKeepsStarted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for _, id := range []string{"x", "y"} {
		if _, err := store.Begin(ctx, id, "/music/"+id+".ncm"); err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
	}
	if err := store.Complete(ctx, "x", "/music/x.flac", "flac"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := store.Get(ctx, "y"); err != nil {
		t.Fatalf("started entry should survive clear: %v", err)
	}
}

func TestAbandonStarted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Begin(ctx, "stale", "/music/s.ncm"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	n, err := store.AbandonStarted(ctx, "process exited")
	if err != nil {
		t.Fatalf("AbandonStarted failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 abandoned, got %d", n)
	}
	got, err := store.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != history.StatusFailed || got.Message != "process exited" {
		t.Fatalf("unexpected entry: %#v", got)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Begin(context.Background(), "keep", "/music/k.ncm"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if reopened.Path() != path {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
	if _, err := reopened.Get(context.Background(), "keep"); err != nil {
		t.Fatalf("entry lost after reopen: %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	for _, status := range history.AllStatuses() {
		parsed, ok := history.ParseStatus(" " + string(status) + " ")
		if !ok || parsed != status {
			t.Fatalf("ParseStatus(%q) = %q, %v", status, parsed, ok)
		}
	}
	if _, ok := history.ParseStatus("queued"); ok {
		t.Fatal("expected unknown status to fail")
	}
}
