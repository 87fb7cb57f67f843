package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetStoreFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		storeImportFrom, storeShowFormat = "", ""
		storeListJSON = false
	})
}

// seedProject writes a project holding one cursor rule and one kiro
// steering file.
func seedProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, ".cursor/rules/go-errors.mdc", cursorRule)
	writeFile(t, root, ".kiro/steering/api.md",
		"---\ninclusion: always\n---\n# API style\n\n## Rules\n\n- Version every endpoint\n")
	return root
}

func TestStoreImportAndList(t *testing.T) {
	useTestConfig(t)
	resetStoreFlags(t)
	root := seedProject(t)

	var out bytes.Buffer
	require.NoError(t, runStoreImport(testCmd(t), []string{root}, &out))
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
	assert.Contains(t, out.String(), "(cursor)")
	assert.Contains(t, out.String(), "(kiro)")

	storeListJSON = true
	out.Reset()
	require.NoError(t, runStoreList(testCmd(t), &out))

	var sums []storeSummaryJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &sums))
	require.Len(t, sums, 2)

	names := []string{sums[0].Name, sums[1].Name}
	assert.ElementsMatch(t, []string{"go-errors", "api"}, names)
}

func TestStoreImport_SingleFile(t *testing.T) {
	useTestConfig(t)
	resetStoreFlags(t)
	path := writeFile(t, t.TempDir(), "guide.txt", "# Guide\n\nRead the docs.\n")

	var out bytes.Buffer
	err := runStoreImport(testCmd(t), []string{path}, &out)
	require.Error(t, err, "undetectable format without --from")

	storeImportFrom = "generic"
	require.NoError(t, runStoreImport(testCmd(t), []string{path}, &out))
	assert.Contains(t, out.String(), "(generic)")
}

func TestStoreImport_EmptyProject(t *testing.T) {
	useTestConfig(t)
	resetStoreFlags(t)

	var out bytes.Buffer
	err := runStoreImport(testCmd(t), []string{t.TempDir()}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no artifacts found")
}

func TestStoreList_Empty(t *testing.T) {
	useTestConfig(t)
	resetStoreFlags(t)

	var out bytes.Buffer
	require.NoError(t, runStoreList(testCmd(t), &out))
	assert.Equal(t, "No packages stored\n", out.String())
}

func TestStoreShow(t *testing.T) {
	useTestConfig(t)
	resetStoreFlags(t)
	path := writeFile(t, t.TempDir(), "go-errors.mdc", cursorRule)

	var out bytes.Buffer
	require.NoError(t, runStoreImport(testCmd(t), []string{path}, &out))
	id := strings.Fields(stripANSI(out.String()))[0]

	out.Reset()
	require.NoError(t, runStoreShow(testCmd(t), id, &out))
	assert.Contains(t, out.String(), `"name": "go-errors"`)

	storeShowFormat = "kiro"
	err := runStoreShow(testCmd(t), id, &out)
	require.Error(t, err, "nothing rendered yet")
	assert.Contains(t, err.Error(), "not found")

	storeShowFormat = ""
	err = runStoreShow(testCmd(t), "01HZZZZZZZZZZZZZZZZZZZZZZZ", &out)
	require.Error(t, err)
}

// stripANSI removes the color codes the CLI prints.
func stripANSI(s string) string {
	for _, code := range []string{colorReset, colorBold, colorCyan, colorGreen, colorYellow, colorGray} {
		s = strings.ReplaceAll(s, code, "")
	}
	return s
}
