package validators

import (
	"bytes"
)

// allowedAudioTypes is the accepted set of declared MIME types for uploads.
var allowedAudioTypes = map[string]bool{
	"audio/wav":  true,
	"audio/wave": true,
	"audio/mp3":  true,
	"audio/mp4":  true,
	"audio/mpeg": true,
	"audio/webm": true,
	"audio/ogg":  true,
}

// AudioValidator checks uploaded recordings against the configured size
// limit, the MIME type allowlist, and magic-byte signatures of the
// supported container formats.
type AudioValidator struct {
	maxBytes int64
}

// NewAudioValidator constructs an [AudioValidator] with the given size
// limit in bytes.
func NewAudioValidator(maxBytes int64) *AudioValidator {
	return &AudioValidator{maxBytes: maxBytes}
}

// Validate checks the upload's size and declared content type. The
// declared type comes from the multipart part header and is cheap to check
// before any state change; the payload signature is verified separately
// with [AudioValidator.Sniff].
func (v *AudioValidator) Validate(audio []byte, contentType string) error {
	if len(audio) == 0 {
		return ErrNoAudio
	}
	if v.maxBytes > 0 && int64(len(audio)) > v.maxBytes {
		return ErrAudioTooLarge
	}
	if !allowedAudioTypes[contentType] {
		return ErrUnsupportedFormat
	}
	return nil
}

// Sniff verifies the payload against the magic-byte signatures of the
// supported containers, so a mislabeled non-audio file is rejected even
// with an allowed content type.
func (v *AudioValidator) Sniff(audio []byte) error {
	if !looksLikeAudio(audio) {
		return ErrUnsupportedFormat
	}
	return nil
}

// MaxBytes returns the configured size limit.
func (v *AudioValidator) MaxBytes() int64 {
	return v.maxBytes
}

// looksLikeAudio sniffs the payload for the signatures of the supported
// audio containers: WAV (RIFF), MP3 (ID3 tag or MPEG frame sync), M4A/MP4
// (ftyp box), Ogg, and WebM/Matroska.
func looksLikeAudio(data []byte) bool {
	if len(data) < 12 {
		return false
	}

	switch {
	case bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return true
	case bytes.HasPrefix(data, []byte("ID3")):
		return true
	case data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG audio frame sync.
		return true
	case bytes.Equal(data[4:8], []byte("ftyp")):
		return true
	case bytes.HasPrefix(data, []byte("OggS")):
		return true
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		// EBML header (WebM/Matroska).
		return true
	}

	return false
}
