package ncm

import "fmt"

// Table is the final 256-entry lookup table derived from a per-file key. It
// is read-only once built and indexed purely by stream position.
type Table [256]byte

// NewTable expands key into the lookup table.
//
// The first pass is an RC4-style key schedule over the identity permutation.
// The second pass remaps every slot through the scheduled box; the result is
// not necessarily a permutation. All arithmetic wraps at 8 bits.
func NewTable(key []byte) (*Table, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty keystream key", ErrKeyTooShort)
	}

	box := scheduleBox(key)
	t := remap(&box)
	return &t, nil
}

// scheduleBox permutes the identity box under key. The result is always a
// permutation of 0..255.
func scheduleBox(key []byte) [256]byte {
	var box [256]byte
	for i := range box {
		box[i] = byte(i)
	}
	var j byte
	for i := 0; i < 256; i++ {
		j += box[i] + key[i%len(key)]
		box[i], box[j] = box[j], box[i]
	}
	return box
}

func remap(box *[256]byte) Table {
	var t Table
	for i := 0; i < 256; i++ {
		orig := box[i]
		idx := box[byte(i)+orig] + orig
		t[i] = box[idx]
	}
	return t
}
