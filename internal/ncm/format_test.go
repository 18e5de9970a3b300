package ncm_test

import (
	"testing"

	"ncmconv/internal/ncm"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want ncm.Format
	}{
		{name: "flac header", data: []byte("fLaC\x00\x00\x00\x22"), want: ncm.FormatFLAC},
		{name: "exactly magic", data: []byte("fLaC"), want: ncm.FormatFLAC},
		{name: "id3 tagged mp3", data: []byte("ID3\x04\x00"), want: ncm.FormatOther},
		{name: "mpeg frame sync", data: []byte{0xff, 0xfb, 0x90, 0x64}, want: ncm.FormatOther},
		{name: "wrong case", data: []byte("FLAC"), want: ncm.FormatOther},
		{name: "too short", data: []byte("fLa"), want: ncm.FormatOther},
		{name: "empty", data: nil, want: ncm.FormatOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ncm.Sniff(tt.data); got != tt.want {
				t.Fatalf("Sniff(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}
