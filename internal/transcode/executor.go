package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// maxStderr bounds how much transcoder stderr is retained.
const maxStderr = 64 << 10

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTranscoderNotFound, binary, err)
	}
	cmd := exec.CommandContext(ctx, resolved, args...) //nolint:gosec
	stderr := &tailBuffer{limit: maxStderr}
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("run %s: %w", binary, ctxErr)
		}
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			return &ExitError{Code: exitErr.ExitCode(), Stderr: stderr.String()}
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, exec.ErrNotFound):
			return fmt.Errorf("%w: %s: %v", ErrTranscoderNotFound, binary, err)
		default:
			return fmt.Errorf("%w: run %s: %w", ErrTranscoder, binary, err)
		}
	}
	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) > b.limit {
		p = p[len(p)-b.limit:]
	}
	if over := b.buf.Len() + len(p) - b.limit; over > 0 {
		b.buf.Next(over)
	}
	b.buf.Write(p)
	return n, nil
}

func (b *tailBuffer) String() string { return b.buf.String() }
