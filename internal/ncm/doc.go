// Package ncm decodes the encrypted .ncm audio container.
//
// The container is a fixed little-endian layout: an 8-byte magic, an
// AES-wrapped per-file key, a metadata blob, a cover image, and the audio
// payload enciphered with a table-driven XOR stream. Parse locates the
// sections, DeriveKey recovers the per-file key, NewTable expands it into the
// 256-byte lookup table, and Decrypt (or NewReader) applies the stream.
//
// Every step is a pure function of its input. The embedded core key is a
// process-wide constant and the lookup table is rebuilt per file, so any
// number of decodes may run concurrently without coordination.
//
// NewTable and XORKeyStream reproduce the format's index arithmetic exactly.
// A changed index corrupts every decoded byte without raising an error.
package ncm
