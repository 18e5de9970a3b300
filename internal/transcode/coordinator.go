package transcode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"ncmconv/internal/fileutil"
	"ncmconv/internal/logging"
	"ncmconv/internal/ncm"
)

// defaultInputExtension is used when the payload's type cannot be sniffed.
const defaultInputExtension = ".mp3"

// Option configures the coordinator.
type Option func(*Coordinator)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Coordinator) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger sets the logger used for transcoder diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Coordinator finalizes decrypted audio into the output file.
type Coordinator struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// New constructs a coordinator that shells out to binary for non-FLAC input.
func New(binary string, opts ...Option) (*Coordinator, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("transcoder binary required")
	}
	c := &Coordinator{
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "transcode")
	return c, nil
}

// Finalize persists audio at target, overwriting any existing file.
func (c *Coordinator) Finalize(ctx context.Context, audio []byte, format ncm.Format, target string) error {
	if strings.TrimSpace(target) == "" {
		return errors.New("finalize: target path required")
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("finalize: create output directory: %w", err)
	}
	if format == ncm.FormatFLAC {
		if err := fileutil.WriteAtomic(target, audio, 0o644); err != nil {
			return fmt.Errorf("finalize: write flac: %w", err)
		}
		return nil
	}
	return c.transcode(ctx, audio, target)
}

func (c *Coordinator) transcode(ctx context.Context, audio []byte, target string) error {
	input, err := fileutil.TempSibling(target, InputExtension(audio))
	if err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	defer func() {
		if err := fileutil.RemoveIfExists(input); err != nil {
			logging.WarnWithContext(c.logger, "temporary transcoder input not removed", "transcode_cleanup_failed",
				logging.String("temp_path", input),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the hidden file next to the output manually"),
			)
		}
	}()

	if err := os.WriteFile(input, audio, 0o600); err != nil {
		return fmt.Errorf("finalize: write transcoder input: %w", err)
	}

	args := []string{"-y", "-i", input, target}
	c.logger.Debug("running transcoder",
		logging.String("binary", c.binary),
		logging.String("input", input),
		logging.String("output", target),
	)
	if err := c.exec.Run(ctx, c.binary, args); err != nil {
		return err
	}
	return nil
}

// InputExtension picks the temp file extension for a non-FLAC payload.
func InputExtension(audio []byte) string {
	ext := mimetype.Detect(audio).Extension()
	if ext == "" || ext == ".bin" || ext == ".txt" {
		return defaultInputExtension
	}
	return ext
}
