package gemini

import (
	"regexp"
	"strings"

	"github.com/thoreinstein/canon/internal/errors"
)

// Canonical variables.
const (
	VarArguments = "$ARGUMENTS"
)

// platformVars maps canonical variables to Gemini CLI syntax.
var platformVars = map[string]string{
	VarArguments: "{{args}}",
}

// canonicalVars maps Gemini CLI variables back to canonical syntax.
var canonicalVars = map[string]string{
	"{{args}}":     VarArguments,
	"{{argument}}": VarArguments, // older spelling
}

// varPattern matches variable syntax: $ followed by 2+ uppercase letters/underscores.
var varPattern = regexp.MustCompile(`\$[A-Z][A-Z_]+\b`)

// shellPattern matches a shell injection block.
var shellPattern = regexp.MustCompile(`!\{[^}]*\}`)

// ErrUnsupportedVariable indicates content contains variables Gemini CLI
// cannot expand.
var ErrUnsupportedVariable = errors.New("unsupported variable")

// TranslateVariables converts canonical variable syntax to Gemini CLI format.
// $ARGUMENTS -> {{args}}
func TranslateVariables(content string) string {
	result := content
	for can, plat := range platformVars {
		result = strings.ReplaceAll(result, can, plat)
	}
	return result
}

// TranslateToCanonical converts Gemini CLI variable syntax to canonical format.
func TranslateToCanonical(content string) string {
	result := content
	for plat, can := range canonicalVars {
		result = strings.ReplaceAll(result, plat, can)
	}
	return result
}

// ValidateVariables checks that content uses only variables Gemini supports.
func ValidateVariables(content string) error {
	var unsupported []string
	for _, v := range ListVariables(content) {
		if _, ok := platformVars[v]; !ok {
			unsupported = append(unsupported, v)
		}
	}
	if len(unsupported) == 0 {
		return nil
	}
	return errors.Wrapf(ErrUnsupportedVariable, "%s", strings.Join(unsupported, ", "))
}

// ListVariables returns the distinct canonical variables in content, in
// order of first appearance.
func ListVariables(content string) []string {
	matches := varPattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{})
	result := make([]string, 0, len(matches))
	for _, v := range matches {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

// HasShellInjection reports whether a prompt contains !{...} blocks.
func HasShellInjection(prompt string) bool {
	return shellPattern.MatchString(prompt)
}
