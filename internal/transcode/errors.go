package transcode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTranscoder is the parent of every transcoder failure.
	ErrTranscoder = errors.New("transcoder error")
	// ErrTranscoderNotFound reports that the transcoder binary could not be located.
	ErrTranscoderNotFound = fmt.Errorf("%w: executable not found", ErrTranscoder)
	// ErrTranscoderFailed reports a non-zero transcoder exit.
	ErrTranscoderFailed = fmt.Errorf("%w: non-zero exit", ErrTranscoder)
)

// ExitError carries the exit status and captured stderr of a failed run.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("transcoder exited with status %d", e.Code)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + lastLine(stderr)
	}
	return msg
}

// Unwrap lets errors.Is match ErrTranscoderFailed and ErrTranscoder.
func (e *ExitError) Unwrap() error { return ErrTranscoderFailed }

func lastLine(s string) string {
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}
