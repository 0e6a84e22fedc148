package parser

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"

	"github.com/ossyrian/mintywad/internal/wad"
)

// wadExt is the member extension looked for inside zip containers.
const wadExt = ".wad"

// Source is a seekable byte source that must be closed after use.
type Source interface {
	io.ReadSeeker
	io.Closer
}

// memSource is an in-memory Source holding an extracted zip member.
type memSource struct {
	*bytes.Reader
}

func (memSource) Close() error { return nil }

// Unwrap opens path on fs and returns the byte source to parse.
//
// Zip detection is best effort:
//   - If the file is a zip container with exactly one member whose name
//     ends in ".wad" (any case), that member is extracted into memory.
//   - In every other case (not a zip, no .wad member, several .wad
//     members) the raw file is returned unchanged.
func Unwrap(fs afero.Fs, name string, logger *slog.Logger) (Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", wad.ErrCouldntReadHeader, name, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: stat %s: %w", wad.ErrCouldntReadHeader, name, err)
	}

	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		logger.Debug("not a zip container, using raw file", "path", name)
		return rewind(f)
	}

	member := findWadMember(zr)
	if member == nil {
		logger.Debug("zip container without a single .wad member, using raw file",
			"path", name,
			"members", len(zr.File),
		)
		return rewind(f)
	}

	data, err := readMember(member)
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: extract %s from %s: %w", wad.ErrCouldntReadHeader, member.Name, name, err)
	}

	logger.Info("extracted archive from zip container",
		"path", name,
		"member", member.Name,
		"size", len(data),
	)

	return memSource{bytes.NewReader(data)}, nil
}

// OpenFile unwraps path on fs and opens the resulting byte source.
func OpenFile(fs afero.Fs, name string, logger *slog.Logger) (*wad.Archive, error) {
	src, err := Unwrap(fs, name, logger)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return Open(src, logger)
}

// findWadMember returns the only regular member with a .wad extension,
// or nil if there are none or more than one.
func findWadMember(zr *zip.Reader) *zip.File {
	var found *zip.File
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !strings.EqualFold(path.Ext(zf.Name), wadExt) {
			continue
		}
		if found != nil {
			return nil
		}
		found = zf
	}
	return found
}

func readMember(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	buf := bytes.NewBuffer(make([]byte, 0, min(zf.UncompressedSize64, 1<<26)))
	if _, err := io.Copy(buf, rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rewind(f afero.File) (Source, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: rewind %s: %w", wad.ErrCouldntReadHeader, f.Name(), err)
	}
	return f, nil
}
