package ncm

import "bytes"

// Format classifies a decrypted payload.
type Format int

const (
	FormatOther Format = iota
	FormatFLAC
)

var flacMagic = []byte("fLaC")

// Sniff classifies decrypted audio by its leading bytes only.
func Sniff(audio []byte) Format {
	if len(audio) >= len(flacMagic) && bytes.Equal(audio[:len(flacMagic)], flacMagic) {
		return FormatFLAC
	}
	return FormatOther
}

func (f Format) String() string {
	switch f {
	case FormatFLAC:
		return "flac"
	default:
		return "other"
	}
}
