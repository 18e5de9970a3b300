package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

var statusStyles = [...]struct{ tag, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

const (
	statusLabelWidth = 24
	statusIndent     = "  "
)

// lineRenderer formats status output for one stream. Colour is used only
// when the stream is a terminal.
type lineRenderer struct {
	colorize bool
}

func newLineRenderer(w io.Writer) lineRenderer {
	return lineRenderer{colorize: isTerminal(w)}
}

// status renders "  label:   [TAG] message", padded so tags line up.
func (r lineRenderer) status(label string, kind statusKind, message string) string {
	style := statusStyles[statusInfo]
	if int(kind) >= 0 && int(kind) < len(statusStyles) {
		style = statusStyles[kind]
	}
	line := fmt.Sprintf("%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.tag)
	if message = strings.TrimSpace(message); message != "" {
		line += " " + message
	}
	return r.paint(style.color, line)
}

// section renders a heading followed by a rule of the same width.
func (r lineRenderer) section(title string) string {
	title = strings.TrimSpace(title)
	return r.paint(ansiBlue, title) + "\n" + r.paint(ansiBlue, strings.Repeat("-", len(title)))
}

func (r lineRenderer) paint(color, s string) string {
	if !r.colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
