package transcode

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTailBufferKeepsLastBytes(t *testing.T) {
	buf := &tailBuffer{limit: 8}
	_, _ = buf.Write([]byte("abcdef"))
	_, _ = buf.Write([]byte("ghijkl"))
	if got := buf.String(); got != "efghijkl" {
		t.Fatalf("unexpected tail %q", got)
	}
	n, _ := buf.Write([]byte(strings.Repeat("z", 20)))
	if n != 20 {
		t.Fatalf("Write must report full length, got %d", n)
	}
	if got := buf.String(); got != strings.Repeat("z", 8) {
		t.Fatalf("unexpected tail %q", got)
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "fake-ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandExecutorCancellationIsNotToolFailure(t *testing.T) {
	script := writeScript(t, "exec sleep 10")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := commandExecutor{}.Run(ctx, script, nil)
	if err == nil {
		t.Fatal("expected error from cancelled run")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context error, got %v", err)
	}
	if errors.Is(err, ErrTranscoder) {
		t.Fatalf("cancellation reported as transcoder failure: %v", err)
	}
}

func TestCommandExecutorReportsExitStatus(t *testing.T) {
	script := writeScript(t, "echo 'bad input' >&2\nexit 3")

	err := commandExecutor{}.Run(context.Background(), script, nil)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.Code != 3 || !strings.Contains(exitErr.Stderr, "bad input") {
		t.Fatalf("unexpected exit error %+v", exitErr)
	}
	if !errors.Is(err, ErrTranscoderFailed) {
		t.Fatalf("expected ErrTranscoderFailed, got %v", err)
	}
}
