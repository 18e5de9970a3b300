package ncm_test

import (
	"bytes"
	"errors"
	"testing"

	"ncmconv/internal/ncm"
	"ncmconv/internal/testsupport"
)

func wrapKey(t *testing.T, plain []byte) []byte {
	t.Helper()
	out := testsupport.EncryptECB(t, testsupport.CoreKey, plain)
	for i := range out {
		out[i] ^= 0x64
	}
	return out
}

func TestDeriveKeyStripsPrefix(t *testing.T) {
	raw := []byte("114514_random_key_material_E7fT49x7dof9OKCgg9cdvhEuezy3iZCL1nFvBFd1T4uSktAJKmwZXsijPbijliionVUXXg9plTbXEclAE9Lb")
	section := wrapKey(t, append([]byte(testsupport.KeyPrefix), raw...))
	original := append([]byte(nil), section...)

	key, err := ncm.DeriveKey(section)
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	if !bytes.Equal(key, raw) {
		t.Fatalf("unexpected key: %q", key)
	}
	if !bytes.Equal(section, original) {
		t.Fatal("DeriveKey modified its input")
	}
}

func TestDeriveKeyErrors(t *testing.T) {
	badPadding := testsupport.EncryptECB(t, testsupport.CoreKey, bytes.Repeat([]byte{'a'}, 16))
	// Drop the final padding block so the last plaintext byte is 'a' (0x61).
	badPadding = badPadding[:16]
	for i := range badPadding {
		badPadding[i] ^= 0x64
	}

	tests := []struct {
		name    string
		section []byte
		want    error
	}{
		{name: "empty", section: nil, want: ncm.ErrBlockLength},
		{name: "partial block", section: make([]byte, 20), want: ncm.ErrBlockLength},
		{name: "bad padding", section: badPadding, want: ncm.ErrPadding},
		{name: "prefix only", section: wrapKey(t, []byte(testsupport.KeyPrefix)), want: ncm.ErrKeyTooShort},
		{name: "shorter than prefix", section: wrapKey(t, []byte("netease")), want: ncm.ErrKeyTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ncm.DeriveKey(tt.section)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ncm.ErrCrypto) {
				t.Fatalf("expected a crypto error, got %v", err)
			}
		})
	}
}
