package testsupport

import (
	"bytes"
	"crypto/aes"
	"encoding/binary"
	"testing"

	"ncmconv/internal/ncm"
)

// CoreKey is the fixed key the client uses to wrap per-file keys.
var CoreKey = []byte("hzHRAmso5kInbaxW")

// KeyPrefix is the literal that precedes the raw key inside the wrapped blob.
const KeyPrefix = "neteasecloudmusic"

// ContainerLayout describes a synthetic container.
type ContainerLayout struct {
	RawKey    []byte
	Metadata  []byte
	Image     []byte
	Plaintext []byte
	// KeyPlain, when set, replaces KeyPrefix+RawKey as the blob encrypted
	// under CoreKey. It lets tests produce deliberately short keys.
	KeyPlain []byte
}

// BuildContainer produces the bytes of a container that decodes to
// layout.Plaintext.
func BuildContainer(t testing.TB, layout ContainerLayout) []byte {
	t.Helper()

	plainKey := layout.KeyPlain
	if plainKey == nil {
		plainKey = append([]byte(KeyPrefix), layout.RawKey...)
	}
	wrapped := EncryptECB(t, CoreKey, plainKey)
	for i := range wrapped {
		wrapped[i] ^= 0x64
	}

	audio := append([]byte(nil), layout.Plaintext...)
	if len(layout.RawKey) > 0 {
		table, err := ncm.NewTable(layout.RawKey)
		if err != nil {
			t.Fatalf("build table: %v", err)
		}
		table.XORKeyStream(audio, audio, 0)
	}

	var buf bytes.Buffer
	buf.WriteString(ncm.Magic)
	buf.Write([]byte{0x01, 0x70})
	writeSection(&buf, wrapped)
	writeSection(&buf, layout.Metadata)
	buf.Write([]byte{0xde, 0xad, 0xbe, 0xef}) // checksum, never verified
	buf.Write(make([]byte, 5))
	writeSection(&buf, layout.Image)
	buf.Write(audio)
	return buf.Bytes()
}

// EncryptECB pads plain with PKCS#7 and encrypts it block by block.
func EncryptECB(t testing.TB, key, plain []byte) []byte {
	t.Helper()

	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("aes.NewCipher: %v", err)
	}
	pad := aes.BlockSize - len(plain)%aes.BlockSize
	padded := append(append([]byte(nil), plain...), bytes.Repeat([]byte{byte(pad)}, pad)...)
	out := make([]byte, len(padded))
	for off := 0; off < len(padded); off += aes.BlockSize {
		block.Encrypt(out[off:off+aes.BlockSize], padded[off:off+aes.BlockSize])
	}
	return out
}

func writeSection(buf *bytes.Buffer, data []byte) {
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(data)))
	buf.Write(size[:])
	buf.Write(data)
}
