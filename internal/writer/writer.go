package writer

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/afero"

	"github.com/ossyrian/mintywad/internal/wad"
)

// Layout computes the directory for lumps as they will be written: the
// first payload starts right after the directory table
// (12 + 16*len(lumps)) and payloads follow each other in order without
// padding. It returns the entries and the total output length.
//
// Names are validated here, so an invalid archive is rejected before
// anything is written.
func Layout(lumps []wad.Lump) ([]wad.DirectoryEntry, int64, error) {
	entries := make([]wad.DirectoryEntry, len(lumps))
	offset := int64(wad.HeaderSize) + int64(len(lumps))*wad.EntrySize

	if len(lumps) > math.MaxInt32 || offset > math.MaxInt32 {
		return nil, 0, fmt.Errorf("%w: %d lumps", wad.ErrSizeOverflow, len(lumps))
	}

	for i, l := range lumps {
		if _, err := wad.EncodeName(l.Name); err != nil {
			return nil, 0, fmt.Errorf("lump %d: %w", i, err)
		}

		size := int64(len(l.Data))
		if offset > math.MaxInt32 || size > math.MaxInt32 {
			return nil, 0, fmt.Errorf("%w: lump %d %q at offset %d with size %d",
				wad.ErrSizeOverflow, i, l.Name, offset, size)
		}

		entries[i] = wad.DirectoryEntry{
			Offset: int32(offset),
			Size:   int32(size),
			Name:   l.Name,
		}
		offset += size
	}

	return entries, offset, nil
}

// Write serializes lumps as a PWAD: header, directory, then payloads in
// directory order. Failures are reported with the sentinel of the phase
// they happened in; the output is unusable after any error.
func Write(w io.Writer, lumps []wad.Lump) error {
	entries, _, err := Layout(lumps)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	header := make([]byte, 0, wad.HeaderSize)
	header = append(header, wad.MagicPWAD[:]...)
	header = binary.LittleEndian.AppendUint32(header, uint32(len(entries)))
	header = binary.LittleEndian.AppendUint32(header, wad.HeaderSize)
	if err := writeAll(bw, header); err != nil {
		return fmt.Errorf("%w: %w", wad.ErrCouldntWriteHeader, err)
	}

	record := make([]byte, 0, wad.EntrySize)
	for i, e := range entries {
		// already validated by Layout
		name, _ := wad.EncodeName(e.Name)

		record = record[:0]
		record = binary.LittleEndian.AppendUint32(record, uint32(e.Offset))
		record = binary.LittleEndian.AppendUint32(record, uint32(e.Size))
		record = append(record, name[:]...)
		if _, err := bw.Write(record); err != nil {
			return fmt.Errorf("%w: entry %d %q: %w", wad.ErrCouldntWriteEntry, i, e.Name, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", wad.ErrCouldntWriteEntry, err)
	}

	for i, l := range lumps {
		if _, err := bw.Write(l.Data); err != nil {
			return fmt.Errorf("%w: lump %d %q: %w", wad.ErrCouldntWriteLump, i, l.Name, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", wad.ErrCouldntWriteLump, err)
	}

	return nil
}

// WriteArchive serializes every lump of a in directory order.
func WriteArchive(w io.Writer, a *wad.Archive) error {
	return Write(w, a.Lumps())
}

// WriteFile creates name on fs and writes lumps to it. A partially
// written file is removed on failure.
func WriteFile(fs afero.Fs, name string, lumps []wad.Lump) (err error) {
	if _, _, err := Layout(lumps); err != nil {
		return err
	}

	f, err := fs.Create(name)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", wad.ErrCouldntWriteHeader, name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", wad.ErrCouldntWriteLump, name, closeErr)
		}
		if err != nil {
			err = errors.Join(err, removeIfExists(fs, name))
		}
	}()

	return Write(f, lumps)
}

// writeAll writes the header and flushes it so a failing destination is
// attributed to the header phase.
func writeAll(bw *bufio.Writer, b []byte) error {
	if _, err := bw.Write(b); err != nil {
		return err
	}
	return bw.Flush()
}

func removeIfExists(fs afero.Fs, name string) error {
	exists, err := afero.Exists(fs, name)
	if err != nil || !exists {
		return err
	}
	return fs.Remove(name)
}
