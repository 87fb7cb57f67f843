package commands

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoreinstein/canon/cmd"
	"github.com/thoreinstein/canon/internal/format"
)

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)
	out := buf.String()

	tests := []struct {
		name     string
		contains string
	}{
		{"version header", "canon version " + cmd.Version},
		{"commit field", "commit:    " + cmd.Commit},
		{"built field", "built:     " + cmd.Date},
		{"go field", runtime.Version()},
		{"formats section", "formats:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, out, tt.contains)
		})
	}

	for _, f := range format.All() {
		assert.Contains(t, out, "    "+f.String()+":")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 5+len(format.All()))
}

func TestVersionCommand_CommandMetadata(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.NotEmpty(t, versionCmd.Short)
	assert.NotEmpty(t, versionCmd.Long)
}
