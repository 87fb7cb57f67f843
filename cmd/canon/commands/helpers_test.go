package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
)

func TestHintsFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{".cursor/rules/go-errors.mdc", "go-errors"},
		{".claude/skills/review/SKILL.md", "review"},
		{".github/instructions/api.instructions.md", "api"},
		{".kiro/agents/helper.json", "helper"},
		{"-", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, hintsFor(tt.path).Name)
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		path    string
		want    format.Format
		wantErr bool
	}{
		{"flag wins", "kiro", "rule.mdc", format.Kiro, false},
		{"alias", "mdc", "", format.Cursor, false},
		{"detected", "", ".cursor/rules/go.mdc", format.Cursor, false},
		{"bad flag", "vim", "rule.mdc", "", true},
		{"undetectable", "", "notes.txt", "", true},
		{"stdin needs flag", "", "-", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFormat(tt.flag, tt.path, "from")
			if tt.wantErr {
				var exitErr *errors.ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Equal(t, errors.ExitUser, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds([]string{"tools", " examples "})
	require.NoError(t, err)
	assert.Equal(t, []canonical.Kind{canonical.KindTools, canonical.KindExamples}, kinds)

	_, err = parseKinds([]string{"appendix"})
	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, exitErr.Suggestion, "instructions")
}

func TestConversionError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantCode       int
		wantSuggestion string
	}{
		{
			name:           "missing option names flag",
			err:            &errors.MissingOptionError{Format: "kiro", Field: "inclusion"},
			wantCode:       errors.ExitUser,
			wantSuggestion: "pass --inclusion",
		},
		{
			name:           "missing option without flag",
			err:            &errors.MissingOptionError{Format: "x", Field: "other"},
			wantCode:       errors.ExitUser,
			wantSuggestion: "supply the other option",
		},
		{
			name:           "invalid option",
			err:            &errors.InvalidOptionError{Format: "cursor", Field: "globs", Value: "[", Reason: "bad"},
			wantCode:       errors.ExitUser,
			wantSuggestion: "globs",
		},
		{
			name:           "unsupported pair",
			err:            &errors.UnsupportedPairError{From: "cursor", To: "vim", Unknown: "vim"},
			wantCode:       errors.ExitUser,
			wantSuggestion: "valid formats",
		},
		{
			name:     "anything else",
			err:      errors.New("disk on fire"),
			wantCode: errors.ExitSystem,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exitErr *errors.ExitError
			require.True(t, errors.As(conversionError(tt.err), &exitErr))
			assert.Equal(t, tt.wantCode, exitErr.Code)
			assert.Contains(t, exitErr.Suggestion, tt.wantSuggestion)
		})
	}
}

func TestOptionFlags(t *testing.T) {
	o := optionFlags{inclusion: "always", globs: []string{"**/*.go"}}
	opts := o.options()
	assert.Nil(t, opts.AlwaysApply)
	assert.Equal(t, "always", opts.Inclusion)

	o.alwaysApplySet = true
	opts = o.options()
	require.NotNil(t, opts.AlwaysApply)
	assert.False(t, *opts.AlwaysApply)
}

func TestReadInput_Stdin(t *testing.T) {
	data, err := readInput("-", strings.NewReader("# Title\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", string(data))

	_, err = readInput("/does/not/exist.md", nil)
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
