package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"ncmconv/internal/convert"
)

// eventPrinter renders conversion events as status lines. Conversions run
// concurrently, so writes are serialized.
type eventPrinter struct {
	mu          sync.Mutex
	out         io.Writer
	lines       lineRenderer
	showStarted bool
}

func newEventPrinter(out io.Writer, showStarted bool) *eventPrinter {
	return &eventPrinter{out: out, lines: newLineRenderer(out), showStarted: showStarted}
}

func (p *eventPrinter) Report(ev convert.Event) {
	var (
		kind    statusKind
		message string
	)
	switch ev.Phase {
	case convert.PhaseStarted:
		if !p.showStarted {
			return
		}
		kind, message = statusInfo, "converting"
	case convert.PhaseCompleted:
		kind, message = statusOK, ev.Output
	case convert.PhaseFailed:
		kind, message = statusError, ev.Message
	default:
		return
	}
	line := p.lines.status(filepath.Base(ev.Path), kind, message)

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, line)
}
