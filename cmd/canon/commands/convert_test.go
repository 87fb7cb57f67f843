package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
)

// resetConvertFlags restores convert flag globals after a test.
func resetConvertFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		convertFrom, convertTo, convertOutput, convertProject = "", "", "", ""
		convertDrop, convertJSON = nil, false
		convertOpts = optionFlags{}
	})
}

func TestRunConvert_Stdout(t *testing.T) {
	useTestConfig(t)
	resetConvertFlags(t)
	path := writeFile(t, t.TempDir(), ".cursor/rules/go-errors.mdc", cursorRule)

	convertTo = "kiro"
	convertOpts.inclusion = "always"

	var stdout, stderr bytes.Buffer
	require.NoError(t, runConvert(testCmd(t), path, nil, &stdout, &stderr))

	assert.Contains(t, stdout.String(), "inclusion: always")
	assert.Contains(t, stdout.String(), "Wrap errors with context")
	assert.Contains(t, stderr.String(), "score 75/100 (lossy)")
	assert.Contains(t, stderr.String(), "tools")
}

func TestRunConvert_JSON(t *testing.T) {
	useTestConfig(t)
	resetConvertFlags(t)
	path := writeFile(t, t.TempDir(), "rule.mdc", cursorRule)

	convertTo = "copilot"
	convertOpts.applyTo = "**/*.go"
	convertJSON = true

	var stdout, stderr bytes.Buffer
	require.NoError(t, runConvert(testCmd(t), path, nil, &stdout, &stderr))

	var res canonical.ConversionResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
	assert.Equal(t, "copilot", res.Format.String())
	assert.Equal(t, 75, res.QualityScore)
	assert.True(t, res.LossyConversion)
	assert.Empty(t, stderr.String(), "JSON mode prints no summary")
}

func TestRunConvert_MissingOption(t *testing.T) {
	useTestConfig(t)
	resetConvertFlags(t)
	path := writeFile(t, t.TempDir(), "rule.mdc", cursorRule)

	convertTo = "kiro"

	var stdout, stderr bytes.Buffer
	err := runConvert(testCmd(t), path, nil, &stdout, &stderr)
	require.ErrorIs(t, err, errors.ErrMissingRequiredOption)

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, errors.ExitUser, exitErr.Code)
	assert.Equal(t, "pass --inclusion", exitErr.Suggestion)
	assert.Empty(t, stdout.String())
}

func TestRunConvert_DropKinds(t *testing.T) {
	useTestConfig(t)
	resetConvertFlags(t)
	path := writeFile(t, t.TempDir(), "rule.mdc", cursorRule)

	convertTo = "kiro"
	convertOpts.inclusion = "always"
	convertDrop = []string{"tools"}

	var stdout, stderr bytes.Buffer
	require.NoError(t, runConvert(testCmd(t), path, nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "score 100/100")
	assert.NotContains(t, stderr.String(), "lossy")
}

func TestRunConvert_OutputFile(t *testing.T) {
	useTestConfig(t)
	resetConvertFlags(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "rule.mdc", cursorRule)
	out := filepath.Join(dir, "out", "rule.md")

	convertTo = "generic"
	convertOutput = out

	var stdout, stderr bytes.Buffer
	require.NoError(t, runConvert(testCmd(t), path, nil, &stdout, &stderr))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Go errors"))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), out)
}

func TestRunConvert_Project(t *testing.T) {
	useTestConfig(t)
	resetConvertFlags(t)
	src := t.TempDir()
	project := t.TempDir()
	path := writeFile(t, src, ".cursor/rules/go-errors.mdc", cursorRule)

	convertTo = "kiro"
	convertOpts.inclusion = "manual"
	convertProject = project

	var stdout, stderr bytes.Buffer
	require.NoError(t, runConvert(testCmd(t), path, nil, &stdout, &stderr))

	data, err := os.ReadFile(filepath.Join(project, ".kiro", "steering", "go-errors.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "inclusion: manual")
}

func TestRunConvert_StdinRequiresTarget(t *testing.T) {
	useTestConfig(t)
	resetConvertFlags(t)

	convertFrom = "generic"

	var stdout, stderr bytes.Buffer
	err := runConvert(testCmd(t), "-", strings.NewReader("# T\n\nBody.\n"), &stdout, &stderr)

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, "pass --to", exitErr.Suggestion)
}

func TestRunConvert_Quiet(t *testing.T) {
	useTestConfig(t)
	resetConvertFlags(t)
	path := writeFile(t, t.TempDir(), "rule.mdc", cursorRule)

	convertTo = "generic"
	quiet = true

	var stdout, stderr bytes.Buffer
	require.NoError(t, runConvert(testCmd(t), path, nil, &stdout, &stderr))
	assert.NotEmpty(t, stdout.String())
	assert.Empty(t, stderr.String())
}
