package writer_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossyrian/mintywad/internal/wad"
	"github.com/ossyrian/mintywad/internal/writer"
)

var errDiskFull = errors.New("disk full")

// limitWriter accepts n bytes and fails afterwards.
type limitWriter struct {
	n   int
	buf bytes.Buffer
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		w.buf.Write(p[:w.n])
		written := w.n
		w.n = 0
		return written, errDiskFull
	}
	w.n -= len(p)
	return w.buf.Write(p)
}

func sampleLumps() []wad.Lump {
	return []wad.Lump{
		{Name: "MAP01", Data: bytes.Repeat([]byte{0xAA}, 10)},
		{Name: "THINGS", Data: []byte{}},
		{Name: "LINEDEFS", Data: bytes.Repeat([]byte{0xBB}, 7)},
	}
}

func TestLayout_Contiguous(t *testing.T) {
	entries, total, err := writer.Layout(sampleLumps())
	require.NoError(t, err)

	offsets := make([]int32, len(entries))
	for i, e := range entries {
		offsets[i] = e.Offset
	}
	assert.Equal(t, []int32{60, 70, 70}, offsets)
	assert.Equal(t, int64(77), total)
	assert.Equal(t, wad.DirectoryEntry{Offset: 70, Size: 7, Name: "LINEDEFS"}, entries[2])
}

func TestLayout_Empty(t *testing.T) {
	entries, total, err := writer.Layout(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, int64(12), total)
}

func TestWrite_Bytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, sampleLumps()))

	out := buf.Bytes()
	require.Len(t, out, 77)

	assert.Equal(t, "PWAD", string(out[:4]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(out[4:8]))
	assert.Equal(t, uint32(12), binary.LittleEndian.Uint32(out[8:12]))

	// first directory entry
	assert.Equal(t, uint32(60), binary.LittleEndian.Uint32(out[12:16]))
	assert.Equal(t, uint32(10), binary.LittleEndian.Uint32(out[16:20]))
	assert.Equal(t, []byte("MAP01\x00\x00\x00"), out[20:28])

	// third directory entry uses the full name width
	assert.Equal(t, []byte("LINEDEFS"), out[52:60])

	// payloads start where the directory says
	assert.Equal(t, bytes.Repeat([]byte{0xAA}, 10), out[60:70])
	assert.Equal(t, bytes.Repeat([]byte{0xBB}, 7), out[70:77])
}

func TestWrite_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		lumps   []wad.Lump
		wantErr error
	}{
		{
			name:    "name longer than 8 bytes",
			lumps:   []wad.Lump{{Name: "OK"}, {Name: "NINECHARS"}},
			wantErr: wad.ErrNameTooLong,
		},
		{
			name:    "invalid utf-8 name",
			lumps:   []wad.Lump{{Name: "BAD\xff"}},
			wantErr: wad.ErrInvalidLumpName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writer.Write(&buf, tt.lumps)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, buf.Len(), "nothing may be written when a precondition fails")
		})
	}
}

func TestWrite_PhaseErrors(t *testing.T) {
	lumps := sampleLumps()

	tests := []struct {
		name    string
		limit   int
		wantErr error
	}{
		{name: "header", limit: 4, wantErr: wad.ErrCouldntWriteHeader},
		{name: "directory", limit: 12 + 20, wantErr: wad.ErrCouldntWriteEntry},
		{name: "payload", limit: 60 + 5, wantErr: wad.ErrCouldntWriteLump},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writer.Write(&limitWriter{n: tt.limit}, lumps)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, errDiskFull)
		})
	}
}

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, writer.WriteFile(fs, "/patch.wad", sampleLumps()))

	data, err := afero.ReadFile(fs, "/patch.wad")
	require.NoError(t, err)
	assert.Len(t, data, 77)
	assert.True(t, strings.HasPrefix(string(data), "PWAD"))
}

func TestWriteFile_PreconditionCreatesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()

	err := writer.WriteFile(fs, "/patch.wad", []wad.Lump{{Name: "WAYTOOLONG"}})
	require.ErrorIs(t, err, wad.ErrNameTooLong)

	exists, err := afero.Exists(fs, "/patch.wad")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWriteFile_CreateFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	err := writer.WriteFile(fs, "/patch.wad", sampleLumps())
	require.ErrorIs(t, err, wad.ErrCouldntWriteHeader)
}
