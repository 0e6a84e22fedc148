package wad

import (
	"fmt"
	"iter"

	"github.com/samber/lo"
)

// Archive is a fully loaded WAD: the directory in file order, the lump
// bytes for each entry at the same position, and a name index.
//
// An Archive is immutable once built. Byte slices returned by its methods
// alias internal storage and must not be modified.
type Archive struct {
	entries []DirectoryEntry
	data    [][]byte
	// index maps a name to the position of the last entry with that name.
	index map[string]int
}

// NewArchive builds an Archive from parallel entry and data sequences.
// The name index is filled in directory order, so a later duplicate name
// shadows an earlier one for lookups. Iteration still reaches both.
func NewArchive(entries []DirectoryEntry, data [][]byte) (*Archive, error) {
	if len(entries) != len(data) {
		return nil, fmt.Errorf("directory has %d entries but %d lumps were loaded", len(entries), len(data))
	}

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Name] = i
	}

	return &Archive{
		entries: entries,
		data:    data,
		index:   index,
	}, nil
}

// Len returns the number of directory entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Entry returns the directory entry at position i.
func (a *Archive) Entry(i int) (DirectoryEntry, bool) {
	if i < 0 || i >= len(a.entries) {
		return DirectoryEntry{}, false
	}
	return a.entries[i], true
}

// Lump returns the bytes of the lump at position i.
func (a *Archive) Lump(i int) ([]byte, bool) {
	if i < 0 || i >= len(a.data) {
		return nil, false
	}
	return a.data[i], true
}

// Entries iterates the directory in file order. The sequence can be
// ranged over any number of times.
func (a *Archive) Entries() iter.Seq2[int, DirectoryEntry] {
	return func(yield func(int, DirectoryEntry) bool) {
		for i, e := range a.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Lookup returns the position of the last entry called name.
func (a *Archive) Lookup(name string) (int, bool) {
	i, ok := a.index[name]
	return i, ok
}

// LumpByName returns the bytes of the last lump called name.
func (a *Archive) LumpByName(name string) ([]byte, error) {
	i, ok := a.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLumpNotFound, name)
	}
	return a.data[i], nil
}

// Names returns every entry name in directory order, duplicates included.
func (a *Archive) Names() []string {
	return lo.Map(a.entries, func(e DirectoryEntry, _ int) string {
		return e.Name
	})
}

// Lumps returns the archive content as named blobs in directory order,
// ready to hand to a writer.
func (a *Archive) Lumps() []Lump {
	return lo.Map(a.entries, func(e DirectoryEntry, i int) Lump {
		return Lump{Name: e.Name, Data: a.data[i]}
	})
}

// TotalSize returns the sum of all lump sizes.
func (a *Archive) TotalSize() int64 {
	return lo.SumBy(a.entries, func(e DirectoryEntry) int64 {
		return int64(e.Size)
	})
}
