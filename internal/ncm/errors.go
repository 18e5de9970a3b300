package ncm

import (
	"errors"
	"fmt"
)

var (
	// ErrInput marks failures to read the source file.
	ErrInput = errors.New("input error")
	// ErrFormat marks structural problems with the container layout.
	ErrFormat = errors.New("format error")
	// ErrCrypto marks failures while recovering the per-file key.
	ErrCrypto = errors.New("crypto error")
)

var (
	ErrInvalidMagic = fmt.Errorf("%w: invalid magic", ErrFormat)
	ErrTruncated    = fmt.Errorf("%w: truncated section", ErrFormat)

	ErrPadding     = fmt.Errorf("%w: invalid padding", ErrCrypto)
	ErrBlockLength = fmt.Errorf("%w: ciphertext is not a whole number of blocks", ErrCrypto)
	ErrKeyTooShort = fmt.Errorf("%w: key material too short", ErrCrypto)
)
