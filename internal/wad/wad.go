package wad

import "github.com/ossyrian/mintywad/internal/decode"

// Header is the 12-byte header at the start of a WAD file.
//
//	[magic(4)][num_lumps(int32)][directory_offset(int32)]
type Header struct {
	Magic           [4]byte // "IWAD" or "PWAD"
	NumLumps        int32   // number of directory entries
	DirectoryOffset int32   // absolute offset of the directory table
}

// DecodeFrom reads the header fields in file order. Unknown magic fails
// before the remaining fields are read.
func (h *Header) DecodeFrom(d *decode.Decoder) error {
	if err := d.ReadFixed(h.Magic[:]); err != nil {
		return err
	}
	if !ValidMagic(h.Magic) {
		return &InvalidMagicError{Magic: h.Magic}
	}

	var err error
	if h.NumLumps, err = d.ReadI32(); err != nil {
		return err
	}
	h.DirectoryOffset, err = d.ReadI32()
	return err
}

// DirectoryEntry describes one lump: where its bytes live in the source
// and what it is called.
//
//	[offset(int32)][size(int32)][name(8 bytes, NUL-padded)]
type DirectoryEntry struct {
	Offset int32  // absolute offset of the lump data
	Size   int32  // lump length in bytes
	Name   string // decoded name, NUL bytes removed
}

// DecodeFrom reads one 16-byte directory entry.
func (e *DirectoryEntry) DecodeFrom(d *decode.Decoder) error {
	var err error
	if e.Offset, err = d.ReadI32(); err != nil {
		return err
	}
	if e.Size, err = d.ReadI32(); err != nil {
		return err
	}

	var raw [NameSize]byte
	if err := d.ReadFixed(raw[:]); err != nil {
		return err
	}
	e.Name, err = DecodeName(raw)
	return err
}

// End returns the offset one past the last byte of the lump.
func (e DirectoryEntry) End() int64 {
	return int64(e.Offset) + int64(e.Size)
}

// Lump is a named byte blob. It is the unit the writer serializes.
type Lump struct {
	Name string
	Data []byte
}
