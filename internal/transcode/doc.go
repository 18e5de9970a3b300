// Package transcode writes decrypted audio to its final location.
//
// FLAC payloads are already in the output codec and are renamed into place.
// Anything else is written to a temporary file and handed to an external
// transcoder invoked as `<binary> -y -i <input> <output>`. The temporary file
// is removed on every exit path.
package transcode
