package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/format"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		heading  string
		want     canonical.Kind
		explicit bool
	}{
		{"Rules", canonical.KindRules, true},
		{"Coding Guidelines", canonical.KindRules, true},
		{"Naming conventions", canonical.KindRules, true},
		{"Best Practices", canonical.KindRules, true},
		{"Examples", canonical.KindExamples, true},
		{"Tools", canonical.KindTools, true},
		{"Your Role", canonical.KindPersona, true},
		{"Persona", canonical.KindPersona, true},
		{"Background", canonical.KindContext, true},
		{"Project Context", canonical.KindContext, true},
		{"Overview", canonical.KindInstructions, true},
		{"Instructions", canonical.KindInstructions, true},
		{"Controllers", canonical.KindInstructions, false},
		{"Error handling", canonical.KindInstructions, false},
	}
	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			got, explicit := Classify(tt.heading)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.explicit, explicit)
		})
	}
}

func TestParse_Structure(t *testing.T) {
	body := `# Go Style

Write idiomatic Go.

## Rules

Follow these always.

- Wrap errors with context
  Rationale: stack traces alone are not enough
  ` + "```go" + `
  return errors.Wrap(err, "open")
  ` + "```" + `
- Accept interfaces, return structs

## Examples

**Good:** early return

` + "```go" + `
if err != nil {
	return err
}
` + "```" + `

**Bad:**

` + "```go" + `
if err == nil {
	// ...
}
` + "```" + `

## Tools

- Read: read files
- ` + "`Grep`" + ` - search code

## Persona

- Role: senior Go reviewer
- Expertise: concurrency, testing

## Background

Monorepo with many services.

## Deployment

Ship on Fridays.
`

	got := Parse(body, format.Cursor)
	assert.Equal(t, "Go Style", got.Title)
	assert.Empty(t, got.Warnings)
	require.Len(t, got.Sections, 7)

	intro := got.Sections[0].(*canonical.InstructionsSection)
	assert.Equal(t, "", intro.Title)
	assert.Equal(t, "Write idiomatic Go.", intro.Content)

	rules := got.Sections[1].(*canonical.RulesSection)
	assert.Equal(t, "Follow these always.", rules.Description)
	require.Len(t, rules.Items, 2)
	assert.Equal(t, "Wrap errors with context", rules.Items[0].Content)
	assert.Equal(t, "stack traces alone are not enough", rules.Items[0].Rationale)
	require.Len(t, rules.Items[0].Examples, 1)
	assert.Equal(t, `return errors.Wrap(err, "open")`, rules.Items[0].Examples[0].Code)
	assert.Equal(t, "go", rules.Items[0].Examples[0].Language)
	assert.False(t, rules.Ordered)

	examples := got.Sections[2].(*canonical.ExamplesSection)
	require.Len(t, examples.Items, 2)
	assert.Equal(t, canonical.VerdictGood, examples.Items[0].Verdict)
	assert.Equal(t, "early return", examples.Items[0].Description)
	assert.Equal(t, canonical.VerdictBad, examples.Items[1].Verdict)
	assert.Equal(t, "", examples.Items[1].Description)

	tools := got.Sections[3].(*canonical.ToolsSection)
	assert.Equal(t, []string{"Read", "Grep"}, tools.Names())
	assert.Equal(t, "search code", tools.Tools[1].Description)

	persona := got.Sections[4].(*canonical.PersonaSection)
	assert.Equal(t, "senior Go reviewer", persona.Role)
	assert.Equal(t, []string{"concurrency", "testing"}, persona.Expertise)

	ctx := got.Sections[5].(*canonical.ContextSection)
	assert.Equal(t, "Monorepo with many services.", ctx.Content)

	// Ambiguous heading defaults to instructions titled with the heading.
	deploy := got.Sections[6].(*canonical.InstructionsSection)
	assert.Equal(t, "Deployment", deploy.Title)
	assert.Equal(t, "Ship on Fridays.", deploy.Content)

	assert.Empty(t, canonical.Validate(&canonical.Package{Sections: append([]canonical.Section{&canonical.MetadataSection{}}, got.Sections...)}))
}

func TestParse_OrderedRulesAndTopLevelFence(t *testing.T) {
	body := "## Guidelines\n\n1. First\n2. Second\n\n```sh\nmake test\n```\n\nWhy: keeps CI green\n"

	got := Parse(body, format.Kiro)
	require.Len(t, got.Sections, 1)
	rules := got.Sections[0].(*canonical.RulesSection)
	assert.True(t, rules.Ordered)
	require.Len(t, rules.Items, 2)
	require.Len(t, rules.Items[1].Examples, 1)
	assert.Equal(t, "make test", rules.Items[1].Examples[0].Code)
	assert.Equal(t, "keeps CI green", rules.Items[1].Rationale)
}

func TestParse_Fallbacks(t *testing.T) {
	t.Run("rules heading without list", func(t *testing.T) {
		got := Parse("## Rules\n\nJust be careful.\n", format.Generic)
		require.Len(t, got.Sections, 1)
		s := got.Sections[0].(*canonical.InstructionsSection)
		assert.Equal(t, "Rules", s.Title)
	})

	t.Run("examples heading without code", func(t *testing.T) {
		got := Parse("## Examples\n\nNone yet.\n", format.Generic)
		require.Len(t, got.Sections, 1)
		assert.Equal(t, canonical.KindInstructions, got.Sections[0].Kind())
	})

	t.Run("code in instructions becomes examples", func(t *testing.T) {
		got := Parse("## Setup\n\nRun this:\n\n```sh\nmake\n```\n", format.Generic)
		require.Len(t, got.Sections, 2)
		assert.Equal(t, "Run this:", got.Sections[0].(*canonical.InstructionsSection).Content)
		ex := got.Sections[1].(*canonical.ExamplesSection)
		assert.Equal(t, "make", ex.Items[0].Code)
	})

	t.Run("empty body", func(t *testing.T) {
		got := Parse("", format.Generic)
		assert.Empty(t, got.Sections)
		assert.Empty(t, got.Warnings)
	})

	t.Run("unterminated fence", func(t *testing.T) {
		got := Parse("## Examples\n\n```go\nfunc main() {}\n", format.Generic)
		require.Len(t, got.Sections, 1)
		assert.Equal(t, "func main() {}", got.Sections[0].(*canonical.ExamplesSection).Items[0].Code)
	})
}

func TestParse_HTMLBecomesCustom(t *testing.T) {
	html := "<details>\n<summary>More</summary>\n</details>"
	got := Parse("## Notes\n\nText.\n\n"+html+"\n", format.Copilot)

	require.Len(t, got.Sections, 2)
	custom := got.Sections[1].(*canonical.CustomSection)
	assert.Equal(t, format.Copilot, custom.Dialect)
	assert.Equal(t, html, custom.Content)
	assert.Equal(t, canonical.SlotBody, custom.Slot)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, canonical.GapWarning(len(html)), got.Warnings[0])
}

func TestParse_EmptyHeadingBecomesCustom(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   []canonical.Kind
		custom int
	}{
		{name: "before another section", body: "## Deprecated\n\n## Rules\n\n- a\n", want: []canonical.Kind{canonical.KindCustom, canonical.KindRules}, custom: 0},
		{name: "trailing", body: "## Rules\n\n- a\n\n## Deprecated\n", want: []canonical.Kind{canonical.KindRules, canonical.KindCustom}, custom: 1},
		{name: "parent of subsection", body: "## Deprecated\n### Notes\n\nOld.\n", want: []canonical.Kind{canonical.KindCustom, canonical.KindInstructions}, custom: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.body, format.Cursor)
			kinds := make([]canonical.Kind, 0, len(got.Sections))
			for _, s := range got.Sections {
				kinds = append(kinds, s.Kind())
			}
			require.Equal(t, tt.want, kinds)

			custom := got.Sections[tt.custom].(*canonical.CustomSection)
			assert.Equal(t, "## Deprecated", custom.Content)
			assert.Equal(t, format.Cursor, custom.Dialect)
			assert.Equal(t, []string{canonical.GapWarning(len("## Deprecated"))}, got.Warnings)
		})
	}

	t.Run("heading before html keeps order", func(t *testing.T) {
		got := Parse("## Notes\n\n<br>\n", format.Copilot)
		require.Len(t, got.Sections, 2)
		assert.Equal(t, "## Notes", got.Sections[0].(*canonical.CustomSection).Content)
		assert.Equal(t, "<br>", got.Sections[1].(*canonical.CustomSection).Content)
		assert.Len(t, got.Warnings, 2)
	})
}

func TestParse_HeadingInsideFenceIgnored(t *testing.T) {
	got := Parse("## Examples\n\n```md\n## Rules\n- not a rule\n```\n", format.Generic)
	require.Len(t, got.Sections, 1)
	ex := got.Sections[0].(*canonical.ExamplesSection)
	assert.Equal(t, "## Rules\n- not a rule", ex.Items[0].Code)
}

func TestRender_RoundTrip(t *testing.T) {
	sections := []canonical.Section{
		&canonical.MetadataSection{Title: "Go Style"},
		&canonical.InstructionsSection{Content: "Write idiomatic Go."},
		&canonical.RulesSection{Title: "Error handling", Ordered: true, Items: []canonical.Rule{
			{Content: "Wrap errors", Rationale: "context", Examples: []canonical.Example{
				{Code: "errors.Wrap(err, \"x\")", Language: "go", Verdict: canonical.VerdictGood},
			}},
			{Content: "Never panic\n- except in main"},
		}},
		&canonical.ExamplesSection{Items: []canonical.Example{
			{Code: "a := \"```\"", Language: "go", Description: "backticks inside"},
			{Code: "x", Verdict: canonical.VerdictBad},
		}},
		&canonical.CustomSection{Dialect: format.Cursor, Content: "<br/>", Slot: canonical.SlotBody},
		&canonical.CustomSection{Dialect: format.Kiro, Content: "<hr/>", Slot: canonical.SlotBody},
	}

	r := Renderer{Dialect: format.Cursor}
	out := r.Render("Go Style", sections)
	assert.Contains(t, out, "## Error handling Rules")
	assert.Contains(t, out, "<br/>")
	assert.NotContains(t, out, "<hr/>")

	got := Parse(out, format.Cursor)
	assert.Equal(t, "Go Style", got.Title)

	var rules *canonical.RulesSection
	var examples *canonical.ExamplesSection
	for _, s := range got.Sections {
		switch v := s.(type) {
		case *canonical.RulesSection:
			rules = v
		case *canonical.ExamplesSection:
			examples = v
		}
	}
	require.NotNil(t, rules)
	require.NotNil(t, examples)
	assert.Equal(t, sections[2].(*canonical.RulesSection).Items, rules.Items)
	assert.True(t, rules.Ordered)
	assert.Equal(t, sections[3].(*canonical.ExamplesSection).Items, examples.Items)
}

func TestRender_Omit(t *testing.T) {
	r := Renderer{
		Dialect: format.Kiro,
		Omit:    func(s canonical.Section) bool { return s.Kind() == canonical.KindTools },
	}
	out := r.Render("", []canonical.Section{
		&canonical.InstructionsSection{Content: "Hi."},
		&canonical.ToolsSection{Tools: []canonical.Tool{{Name: "Read"}}},
	})
	assert.Equal(t, "Hi.\n", out)
}

func TestCollapseRules(t *testing.T) {
	got := CollapseRules(&canonical.RulesSection{Items: []canonical.Rule{
		{Content: "Use gofmt"}, {Content: "Wrap\nerrors."},
	}})
	assert.Equal(t, "Rules: Use gofmt. Wrap errors.", got)
	assert.False(t, strings.Contains(got, "\n"))
}
