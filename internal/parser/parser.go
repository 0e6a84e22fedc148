package parser

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/ossyrian/mintywad/internal/decode"
	"github.com/ossyrian/mintywad/internal/wad"
)

// maxPrealloc caps the capacity reserved up front for directory slices,
// so that a corrupt lump count cannot force a huge allocation before the
// directory bounds have been checked.
const maxPrealloc = 1 << 16

// WadReader reads a WAD archive from a seekable byte source.
// It assumes exclusive use of the source for the duration of a call.
type WadReader struct {
	file   io.ReadSeeker
	logger *slog.Logger
	size   int64 // total source size, measured lazily
}

// NewReader returns a WadReader over rs. A nil logger uses slog.Default().
func NewReader(rs io.ReadSeeker, logger *slog.Logger) *WadReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &WadReader{
		file:   rs,
		logger: logger,
		size:   -1,
	}
}

// sourceSize returns the size of the byte source, seeking to its end once.
// The caller is responsible for seeking back to where it needs to be.
func (r *WadReader) sourceSize() (int64, error) {
	if r.size >= 0 {
		return r.size, nil
	}
	size, err := r.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	r.size = size
	return size, nil
}

// ReadHeader reads the 12-byte header from the start of the source.
// The first 4 bytes must be "IWAD" or "PWAD"; anything else fails with an
// *wad.InvalidMagicError before the rest of the header is read.
func (r *WadReader) ReadHeader() (*wad.Header, error) {
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek to start: %w", wad.ErrCouldntReadHeader, err)
	}

	var buf [wad.HeaderSize]byte
	if _, err := io.ReadFull(r.file, buf[:4]); err != nil {
		return nil, fmt.Errorf("%w: magic: %w", wad.ErrCouldntReadHeader, err)
	}
	if magic := [4]byte(buf[:4]); !wad.ValidMagic(magic) {
		return nil, &wad.InvalidMagicError{Magic: magic}
	}
	if _, err := io.ReadFull(r.file, buf[4:]); err != nil {
		return nil, fmt.Errorf("%w: lump count and directory offset: %w", wad.ErrCouldntReadHeader, err)
	}

	h := &wad.Header{}
	if err := decode.Unmarshal(buf[:], h); err != nil {
		return nil, fmt.Errorf("%w: %w", wad.ErrCouldntReadHeader, err)
	}

	if h.NumLumps < 0 {
		return nil, fmt.Errorf("%w: %w: lump count %d", wad.ErrCouldntReadHeader, wad.ErrNegativeField, h.NumLumps)
	}
	if h.DirectoryOffset < 0 {
		return nil, fmt.Errorf("%w: %w: directory offset %d", wad.ErrCouldntReadHeader, wad.ErrNegativeField, h.DirectoryOffset)
	}

	r.logger.Info("header is valid",
		"magic", string(h.Magic[:]),
		"num_lumps", h.NumLumps,
		"directory_offset", h.DirectoryOffset,
	)

	return h, nil
}

// ReadDirectory seeks to the directory table once and decodes
// h.NumLumps consecutive 16-byte entries. Either the whole directory is
// returned or an error; never a prefix of it.
func (r *WadReader) ReadDirectory(h *wad.Header) ([]wad.DirectoryEntry, error) {
	// nothing is read for an empty directory, wherever its offset points
	if h.NumLumps == 0 {
		r.logger.Debug("directory is empty")
		return []wad.DirectoryEntry{}, nil
	}

	size, err := r.sourceSize()
	if err != nil {
		return nil, fmt.Errorf("%w: measure source: %w", wad.ErrCouldntReadEntry, err)
	}

	tableEnd := int64(h.DirectoryOffset) + int64(h.NumLumps)*wad.EntrySize
	if tableEnd > size {
		return nil, fmt.Errorf("%w: %w: directory [%d, %d) in %d-byte source",
			wad.ErrCouldntReadEntry, wad.ErrOutOfBounds, h.DirectoryOffset, tableEnd, size)
	}

	if _, err := r.file.Seek(int64(h.DirectoryOffset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek to directory at offset %d: %w", wad.ErrCouldntReadEntry, h.DirectoryOffset, err)
	}

	r.logger.Debug("reading directory entries",
		"entry_count", h.NumLumps,
	)

	br := bufio.NewReader(r.file)
	entries := make([]wad.DirectoryEntry, 0, min(int(h.NumLumps), maxPrealloc))

	var buf [wad.EntrySize]byte
	for i := 0; i < int(h.NumLumps); i++ {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", wad.ErrCouldntReadEntry, i, err)
		}

		var entry wad.DirectoryEntry
		if err := decode.Unmarshal(buf[:], &entry); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)

		r.logger.Debug("read directory entry",
			"index", i,
			"name", entry.Name,
			"offset", entry.Offset,
			"size", entry.Size,
		)
	}

	r.logger.Info("read directory",
		"entry_count", len(entries),
	)

	return entries, nil
}

// ReadLump seeks to e.Offset and reads exactly e.Size bytes.
func (r *WadReader) ReadLump(e wad.DirectoryEntry) ([]byte, error) {
	if e.Offset < 0 || e.Size < 0 {
		return nil, fmt.Errorf("%w %q: %w: offset %d size %d",
			wad.ErrCouldntReadLump, e.Name, wad.ErrNegativeField, e.Offset, e.Size)
	}

	size, err := r.sourceSize()
	if err != nil {
		return nil, fmt.Errorf("%w %q: measure source: %w", wad.ErrCouldntReadLump, e.Name, err)
	}
	if e.End() > size {
		return nil, fmt.Errorf("%w %q: %w: [%d, %d) in %d-byte source",
			wad.ErrCouldntReadLump, e.Name, wad.ErrOutOfBounds, e.Offset, e.End(), size)
	}

	if _, err := r.file.Seek(int64(e.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w %q: seek to offset %d: %w", wad.ErrCouldntReadLump, e.Name, e.Offset, err)
	}

	data := make([]byte, e.Size)
	if _, err := io.ReadFull(r.file, data); err != nil {
		return nil, fmt.Errorf("%w %q: %w", wad.ErrCouldntReadLump, e.Name, err)
	}

	return data, nil
}

// ReadLumps materializes every lump in directory order. Entries are read
// independently: lump regions may overlap or appear in any order.
func (r *WadReader) ReadLumps(entries []wad.DirectoryEntry) ([][]byte, error) {
	lumps := make([][]byte, 0, len(entries))
	var total int64

	for i, e := range entries {
		data, err := r.ReadLump(e)
		if err != nil {
			return nil, fmt.Errorf("lump %d: %w", i, err)
		}
		lumps = append(lumps, data)
		total += int64(len(data))
	}

	r.logger.Info("read lumps",
		"lump_count", len(lumps),
		"total_bytes", total,
	)

	return lumps, nil
}

// Open reads a complete archive from rs: header, directory, then every
// lump. It returns either a fully loaded archive or the first error.
func Open(rs io.ReadSeeker, logger *slog.Logger) (*wad.Archive, error) {
	reader := NewReader(rs, logger)

	h, err := reader.ReadHeader()
	if err != nil {
		return nil, err
	}

	entries, err := reader.ReadDirectory(h)
	if err != nil {
		return nil, err
	}

	lumps, err := reader.ReadLumps(entries)
	if err != nil {
		return nil, err
	}

	return wad.NewArchive(entries, lumps)
}
