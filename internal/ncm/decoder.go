package ncm

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Result is the outcome of decoding one container.
type Result struct {
	Audio       []byte
	Format      Format
	KeyLen      int
	MetadataLen int
	ImageLen    int
	AudioOffset int
}

// Decode runs the full pipeline over an in-memory container.
func Decode(ctx context.Context, data []byte, opts DecryptOptions) (*Result, error) {
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	key, err := DeriveKey(c.Key)
	if err != nil {
		return nil, err
	}
	table, err := NewTable(key)
	if err != nil {
		return nil, err
	}
	audio, err := Decrypt(ctx, table, c.Audio, opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Audio:       audio,
		Format:      Sniff(audio),
		KeyLen:      len(key),
		MetadataLen: len(c.Metadata),
		ImageLen:    len(c.Image),
		AudioOffset: c.AudioOffset,
	}, nil
}

// DecodeFile reads path and decodes it. Read failures are reported as ErrInput.
func DecodeFile(ctx context.Context, path string, opts DecryptOptions) (*Result, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(ctx, data, opts)
}

// ReadFile loads a container from disk, tagging failures with ErrInput.
func ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: file not found", ErrInput, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInput, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return data, nil
}
