package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/canon/internal/format"
)

func TestRunFormats_Table(t *testing.T) {
	t.Cleanup(func() { formatsJSON = false })

	var out bytes.Buffer
	require.NoError(t, runFormats(&out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(format.All())+1)
	assert.True(t, strings.HasPrefix(lines[0], "FORMAT"))
	assert.Contains(t, lines[0], "REQUIRED")

	for _, f := range format.All() {
		assert.Contains(t, out.String(), f.String())
	}
}

func TestRunFormats_JSON(t *testing.T) {
	formatsJSON = true
	t.Cleanup(func() { formatsJSON = false })

	var out bytes.Buffer
	require.NoError(t, runFormats(&out))

	var infos []formatInfoJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &infos))
	require.Len(t, infos, len(format.All()))

	byName := map[string]formatInfoJSON{}
	for _, info := range infos {
		byName[info.Name] = info
		assert.Len(t, info.Sections, 8)
	}
	assert.Contains(t, byName["kiro"].Required, "inclusion")
	assert.Contains(t, byName["copilot"].Required, "applyTo")
	assert.Equal(t, "drop", byName["kiro"].Sections["tools"])
}
