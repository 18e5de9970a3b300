package ncm

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Magic is the 8-byte signature every container starts with.
const Magic = "CTENFDAM"

const (
	magicGap    = 2
	checksumGap = 4 + 5 // CRC32 followed by five reserved bytes
)

// Container holds the section boundaries of a parsed file. All slices alias
// the buffer passed to Parse.
type Container struct {
	Key      []byte
	Metadata []byte
	Image    []byte
	Audio    []byte

	// AudioOffset is the absolute offset of Audio within the source buffer.
	AudioOffset int
}

// Parse splits data into its sections. Length fields are checked against the
// remaining buffer; a field that overruns it yields ErrTruncated.
func Parse(data []byte) (*Container, error) {
	r := &cursor{buf: data}

	magic, err := r.next(len(Magic), "magic")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, []byte(Magic)) {
		return nil, fmt.Errorf("%w: got % x", ErrInvalidMagic, magic)
	}
	if err := r.skip(magicGap, "header gap"); err != nil {
		return nil, err
	}

	var c Container
	if c.Key, err = r.section("key"); err != nil {
		return nil, err
	}
	if c.Metadata, err = r.section("metadata"); err != nil {
		return nil, err
	}
	if err := r.skip(checksumGap, "checksum"); err != nil {
		return nil, err
	}
	if c.Image, err = r.section("image"); err != nil {
		return nil, err
	}

	c.AudioOffset = r.pos
	c.Audio = data[r.pos:]
	return &c, nil
}

// cursor is a bounds-checked forward reader over the raw container.
type cursor struct {
	buf []byte
	pos int
}

func (r *cursor) remaining() int {
	return len(r.buf) - r.pos
}

func (r *cursor) next(n int, what string) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, fmt.Errorf("%w: %s needs %d bytes at offset %d, %d remain",
			ErrTruncated, what, n, r.pos, r.remaining())
	}
	out := r.buf[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *cursor) skip(n int, what string) error {
	_, err := r.next(n, what)
	return err
}

// section reads a uint32 little-endian length followed by that many bytes.
func (r *cursor) section(what string) ([]byte, error) {
	raw, err := r.next(4, what+" length")
	if err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(raw)
	if uint64(size) > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: %s declares %d bytes at offset %d, %d remain",
			ErrTruncated, what, size, r.pos, r.remaining())
	}
	return r.next(int(size), what)
}
