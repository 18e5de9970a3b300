package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"ncmconv/internal/convert"
	"ncmconv/internal/deps"
)

func TestStatusLinePlain(t *testing.T) {
	got := lineRenderer{}.status("song.ncm", statusError, "not a container")
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "song.ncm:", "[ERROR] not a container")
	if got != want {
		t.Fatalf("status mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestStatusLineColored(t *testing.T) {
	got := lineRenderer{colorize: true}.status("song.ncm", statusOK, "done")
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestSectionRule(t *testing.T) {
	got := lineRenderer{}.section(" Directories ")
	if got != "Directories\n-----------" {
		t.Fatalf("unexpected section %q", got)
	}
}

func TestNonFileWriterIsNotTerminal(t *testing.T) {
	if isTerminal(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}

func TestDependencyKind(t *testing.T) {
	tests := []struct {
		status deps.Status
		want   statusKind
	}{
		{deps.Status{Available: true}, statusOK},
		{deps.Status{Requirement: deps.Requirement{Optional: true}}, statusWarn},
		{deps.Status{}, statusError},
	}
	for _, tt := range tests {
		if got := dependencyKind(tt.status); got != tt.want {
			t.Fatalf("dependencyKind(%+v) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestEventPrinterSkipsStartedByDefault(t *testing.T) {
	var buf bytes.Buffer
	p := newEventPrinter(&buf, false)
	p.Report(convert.Event{Path: "/in/a.ncm", Phase: convert.PhaseStarted})
	p.Report(convert.Event{Path: "/in/a.ncm", Phase: convert.PhaseCompleted, Output: "/out/a.flac"})
	p.Report(convert.Event{Path: "/in/b.ncm", Phase: convert.PhaseFailed, Message: "bad magic"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	requireContains(t, lines[0], "a.ncm:")
	requireContains(t, lines[0], "[OK] /out/a.flac")
	requireContains(t, lines[1], "[ERROR] bad magic")
}
