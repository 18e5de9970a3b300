package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteContainer builds a container from layout and writes it to path.
func WriteContainer(t testing.TB, path string, layout ContainerLayout) {
	t.Helper()
	WriteBytes(t, path, BuildContainer(t, layout))
}

// WriteBytes writes data to path, creating parent directories.
func WriteBytes(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// FLACPayload returns bytes the sniffer classifies as FLAC.
func FLACPayload(size int) []byte {
	if size < 4 {
		size = 4
	}
	buf := make([]byte, size)
	copy(buf, "fLaC")
	for i := 4; i < size; i++ {
		buf[i] = byte(i * 7)
	}
	return buf
}

// MP3Payload returns bytes starting with an ID3 tag header.
func MP3Payload(size int) []byte {
	if size < 10 {
		size = 10
	}
	buf := make([]byte, size)
	copy(buf, "ID3\x03\x00\x00\x00\x00\x00\x00")
	for i := 10; i < size; i++ {
		buf[i] = byte(i * 13)
	}
	return buf
}
