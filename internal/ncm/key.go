package ncm

import (
	"crypto/aes"
	"fmt"
)

const (
	keyMask = 0x64

	// keyPrefixLen is the length of the "neteasecloudmusic" literal that
	// precedes the usable key material after decryption.
	keyPrefixLen = 17
)

// coreKey unwraps the per-file key section. It is shared by every container
// produced by the client and never changes.
var coreKey = [aes.BlockSize]byte{
	0x68, 0x7A, 0x48, 0x52, 0x41, 0x6D, 0x73, 0x6F,
	0x35, 0x6B, 0x49, 0x6E, 0x62, 0x61, 0x78, 0x57,
}

// DeriveKey recovers the keystream key from a container's key section. The
// section is unmasked, decrypted with AES-128-ECB under the core key, stripped
// of PKCS#7 padding and then of its 17-byte literal prefix. The input slice
// is not modified.
func DeriveKey(section []byte) ([]byte, error) {
	masked := make([]byte, len(section))
	for i, b := range section {
		masked[i] = b ^ keyMask
	}

	plain, err := decryptECB(coreKey[:], masked)
	if err != nil {
		return nil, err
	}
	if len(plain) <= keyPrefixLen {
		return nil, fmt.Errorf("%w: %d bytes after decryption, need more than %d",
			ErrKeyTooShort, len(plain), keyPrefixLen)
	}
	return plain[keyPrefixLen:], nil
}

// decryptECB decrypts each block independently and removes PKCS#7 padding.
func decryptECB(key, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBlockLength, len(ciphertext))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
	}

	out := make([]byte, len(ciphertext))
	for off := 0; off < len(ciphertext); off += aes.BlockSize {
		block.Decrypt(out[off:off+aes.BlockSize], ciphertext[off:off+aes.BlockSize])
	}
	return unpad(out)
}

func unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("%w: pad byte 0x%02x", ErrPadding, n)
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, fmt.Errorf("%w: inconsistent pad bytes", ErrPadding)
		}
	}
	return b[:len(b)-n], nil
}
