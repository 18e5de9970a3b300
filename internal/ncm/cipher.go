package ncm

import (
	"context"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// mask returns the keystream byte for absolute stream position pos.
func (t *Table) mask(pos int64) byte {
	return t[t[byte(pos+1)]]
}

// XORKeyStream enciphers or deciphers src into dst, treating src[0] as the
// byte at stream position offset. dst must be at least len(src) long and may
// alias src. The transform is its own inverse.
func (t *Table) XORKeyStream(dst, src []byte, offset int64) {
	_ = dst[:len(src)]
	for i, b := range src {
		dst[i] = b ^ t.mask(offset+int64(i))
	}
}

// DefaultChunkSize is the span handed to one decrypt worker.
const DefaultChunkSize = 1 << 20

// DecryptOptions tunes Decrypt.
type DecryptOptions struct {
	// Workers bounds the goroutines used for large payloads. Zero means
	// GOMAXPROCS; one forces a sequential pass.
	Workers int
	// ChunkSize overrides DefaultChunkSize.
	ChunkSize int
}

// Decrypt returns a deciphered copy of payload. Because the keystream depends
// only on position, disjoint ranges are processed concurrently; the output is
// identical to a single sequential pass.
func Decrypt(ctx context.Context, t *Table, payload []byte, opts DecryptOptions) ([]byte, error) {
	out := make([]byte, len(payload))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	if workers == 1 || len(payload) <= chunk {
		t.XORKeyStream(out, payload, 0)
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(payload); start += chunk {
		end := min(start+chunk, len(payload))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t.XORKeyStream(out[start:end], payload[start:end], int64(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Reader deciphers an audio payload as it is read.
type Reader struct {
	r     io.Reader
	table *Table
	pos   int64
}

// NewReader wraps r, which must be positioned at the first payload byte.
func NewReader(r io.Reader, t *Table) *Reader {
	return &Reader{r: r, table: t}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.table.XORKeyStream(p[:n], p[:n], r.pos)
		r.pos += int64(n)
	}
	return n, err
}
