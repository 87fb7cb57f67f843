package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/canon/internal/errors"
)

// MaxFileSize bounds how much of an artifact is read into memory (1 MiB).
// Assistant artifacts are prose; anything larger is almost certainly not one.
const MaxFileSize = 1 << 20

// ErrFileTooLarge indicates that input exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("input exceeds maximum size of %d bytes", MaxFileSize)

// ReadLimited reads r to EOF, failing with ErrFileTooLarge once more than
// MaxFileSize bytes have been seen.
func ReadLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// ReadFileWithLimit reads the file at path with ReadLimited. Oversized
// regular files are rejected from their size before any byte is read.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		if info.IsDir() {
			return nil, errors.Newf("%s is a directory", path)
		}
		if info.Mode().IsRegular() && info.Size() > MaxFileSize {
			return nil, ErrFileTooLarge
		}
	}
	return ReadLimited(f)
}
