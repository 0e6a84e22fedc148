package wad

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// DecodeName converts a raw 8-byte name field to text.
// Every NUL byte is dropped, not just the padding, and the remainder must
// be valid UTF-8.
func DecodeName(raw [NameSize]byte) (string, error) {
	stripped := bytes.ReplaceAll(raw[:], []byte{0}, nil)
	name, _, err := transform.String(encoding.UTF8Validator, string(stripped))
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidLumpName, stripped, err)
	}
	return name, nil
}

// EncodeName right-pads name with NUL bytes to the 8-byte field width.
// Longer names are rejected rather than truncated.
func EncodeName(name string) ([NameSize]byte, error) {
	var raw [NameSize]byte
	if len(name) > NameSize {
		return raw, fmt.Errorf("%w: %q is %d bytes", ErrNameTooLong, name, len(name))
	}
	if _, _, err := transform.String(encoding.UTF8Validator, name); err != nil {
		return raw, fmt.Errorf("%w %q: %w", ErrInvalidLumpName, name, err)
	}
	copy(raw[:], name)
	return raw, nil
}
