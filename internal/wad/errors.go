package wad

import (
	"errors"
	"fmt"

	"github.com/ossyrian/mintywad/internal/decode"
)

// Sentinel errors for WAD operations. I/O failures are wrapped together
// with the sentinel of the phase they happened in, so callers can test for
// both with errors.Is.
var (
	// ErrCouldntReadHeader means reading the 12-byte header failed.
	ErrCouldntReadHeader = errors.New("failed to read header")
	// ErrCouldntReadEntry means reading the directory table failed.
	ErrCouldntReadEntry = errors.New("failed to read directory entry")
	// ErrCouldntReadLump means seeking to or reading a lump failed.
	ErrCouldntReadLump = errors.New("failed to read lump")
	// ErrCouldntWriteHeader means writing the header failed.
	ErrCouldntWriteHeader = errors.New("failed to write header")
	// ErrCouldntWriteEntry means writing the directory table failed.
	ErrCouldntWriteEntry = errors.New("failed to write directory entry")
	// ErrCouldntWriteLump means writing lump payload failed.
	ErrCouldntWriteLump = errors.New("failed to write lump")
	// ErrInvalidMagicNumber means the first 4 bytes are not IWAD or PWAD.
	// The concrete error is an *InvalidMagicError carrying the bytes.
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	// ErrInvalidLumpName means a name field is not valid UTF-8 text.
	ErrInvalidLumpName = errors.New("invalid lump name")
	// ErrLumpNotFound means no entry has the requested name.
	ErrLumpNotFound = errors.New("lump not found")
	// ErrNameTooLong means a name does not fit the 8-byte name field.
	ErrNameTooLong = errors.New("lump name exceeds 8 bytes")
	// ErrSizeOverflow means an offset or size does not fit in int32.
	ErrSizeOverflow = errors.New("size exceeds int32 range")
	// ErrOutOfBounds means a byte range extends past the end of the source.
	ErrOutOfBounds = errors.New("range exceeds source size")
	// ErrNegativeField means a count, offset or size field is negative.
	ErrNegativeField = errors.New("negative field value")
)

// Decoder errors, re-exported so callers only need this package.
var (
	ErrTrailingBytes = decode.ErrTrailingBytes
	ErrUnexpectedEOF = decode.ErrUnexpectedEOF
	ErrOther         = decode.ErrOther
)

// InvalidMagicError carries the unrecognized magic bytes.
type InvalidMagicError struct {
	Magic [4]byte
}

func (e *InvalidMagicError) Error() string {
	return fmt.Sprintf("%v: %q", ErrInvalidMagicNumber, e.Magic[:])
}

func (e *InvalidMagicError) Is(target error) bool {
	return target == ErrInvalidMagicNumber
}
