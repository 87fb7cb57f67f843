package markdown

import (
	"strings"
	"unicode"

	"github.com/thoreinstein/canon/internal/canonical"
)

// headingKeywords maps heading keywords to section kinds. Order matters:
// the first matching entry wins, so "Tool usage rules" is a rules heading.
var headingKeywords = []struct {
	kind     canonical.Kind
	keywords []string
}{
	{canonical.KindRules, []string{"rule", "guideline", "convention", "best practice", "do's and don'ts", "dos and don'ts", "standards"}},
	{canonical.KindExamples, []string{"example"}},
	{canonical.KindTools, []string{"tool"}},
	{canonical.KindPersona, []string{"persona", "role", "identity"}},
	{canonical.KindContext, []string{"context", "background"}},
	{canonical.KindInstructions, []string{"instruction", "overview"}},
}

// Classify maps a heading to a section kind. A heading that names no known
// section is treated as instructions; the second result is false in that
// case so callers can tell an ambiguous heading from an explicit one.
func Classify(heading string) (canonical.Kind, bool) {
	// Keywords match at word starts: "Roles" is persona, "Controllers" is not.
	words := strings.FieldsFunc(strings.ToLower(heading), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	h := " " + strings.Join(words, " ")
	for _, entry := range headingKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(h, " "+kw) {
				return entry.kind, true
			}
		}
	}
	return canonical.KindInstructions, false
}
