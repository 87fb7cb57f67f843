package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/canon/internal/errors"
)

func TestReadFileWithLimit(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{"small rule", 100, false},
		{"exact limit", MaxFileSize, false},
		{"too large", MaxFileSize + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, os.WriteFile(path, nil, 0o644))
			require.NoError(t, os.Truncate(path, tt.size))

			data, err := ReadFileWithLimit(path)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrFileTooLarge), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, data, int(tt.size))
		})
	}
}

func TestReadFileWithLimit_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFileWithLimit(filepath.Join(dir, "missing.mdc"))
	assert.ErrorContains(t, err, "opening file")

	_, err = ReadFileWithLimit(dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestReadLimited(t *testing.T) {
	data, err := ReadLimited(strings.NewReader("# Go rules\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Go rules\n", string(data))

	_, err = ReadLimited(bytes.NewReader(make([]byte, MaxFileSize+1)))
	assert.True(t, errors.Is(err, ErrFileTooLarge))
}
