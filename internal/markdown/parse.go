package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/format"
)

// Body is the canonical view of a markdown document body.
type Body struct {
	// Title is the text of a leading H1, if any.
	Title    string
	Sections []canonical.Section
	Warnings []string
}

// rationalePattern matches an explicit rationale line.
var rationalePattern = regexp.MustCompile(`(?i)^(?:\*\*|_)?(?:rationale|why)(?:\*\*|_)?\s*:\s*(?:\*\*|_)?\s*(.*)$`)

// Parse maps a markdown body onto canonical sections. It never fails:
// HTML blocks and headings with no body become custom sections tagged with
// dialect, each with a warning.
func Parse(body string, dialect format.Format) Body {
	blocks := scan(body)
	var out Body

	if len(blocks) > 0 && blocks[0].kind == blockHeading && blocks[0].level == 1 {
		out.Title = blocks[0].text
		blocks = blocks[1:]
	}

	p := &parser{dialect: dialect}
	for _, g := range group(blocks) {
		p.build(g)
	}
	out.Sections = p.sections
	out.Warnings = p.warnings
	return out
}

type headingGroup struct {
	heading *block
	kind    canonical.Kind
	blocks  []block
}

// group splits blocks at headings. Examples sections absorb deeper headings
// as example descriptions.
func group(blocks []block) []headingGroup {
	var groups []headingGroup
	cur := headingGroup{kind: canonical.KindInstructions}
	for i := range blocks {
		b := blocks[i]
		if b.kind != blockHeading {
			cur.blocks = append(cur.blocks, b)
			continue
		}
		if cur.heading != nil && cur.kind == canonical.KindExamples && b.level > cur.heading.level {
			cur.blocks = append(cur.blocks, block{kind: blockParagraph, raw: b.text, text: b.text})
			continue
		}
		groups = append(groups, cur)
		kind, _ := Classify(b.text)
		cur = headingGroup{heading: &blocks[i], kind: kind}
	}
	return append(groups, cur)
}

type parser struct {
	dialect  format.Format
	sections []canonical.Section
	warnings []string
	customs  []canonical.Section
}

func (p *parser) emit(s canonical.Section) {
	p.sections = append(p.sections, s)
}

// gap turns an unmappable block into a custom section, emitted after the
// section it appeared in.
func (p *parser) gap(b block) {
	p.customs = append(p.customs, &canonical.CustomSection{
		Dialect: p.dialect,
		Content: b.raw,
		Slot:    canonical.SlotBody,
	})
	p.warnings = append(p.warnings, canonical.GapWarning(utf8.RuneCountInString(b.raw)))
}

func (p *parser) build(g headingGroup) {
	title := ""
	if g.heading != nil {
		title = g.heading.text
	}

	var blocks []block
	if g.heading != nil && !hasContent(g.blocks) {
		p.gap(*g.heading)
	}
	for _, b := range g.blocks {
		if b.kind == blockHTML {
			p.gap(b)
			continue
		}
		blocks = append(blocks, b)
	}

	if len(blocks) > 0 {
		switch g.kind {
		case canonical.KindRules:
			p.rules(title, blocks)
		case canonical.KindExamples:
			p.examples(title, blocks)
		case canonical.KindTools:
			p.tools(title, blocks)
		case canonical.KindPersona:
			p.persona(title, blocks)
		case canonical.KindContext:
			p.context(title, blocks)
		default:
			p.instructions(title, blocks)
		}
	}

	p.sections = append(p.sections, p.customs...)
	p.customs = nil
}

// hasContent reports whether blocks holds anything besides HTML, which is
// carried separately as custom sections.
func hasContent(blocks []block) bool {
	for _, b := range blocks {
		if b.kind != blockHTML {
			return true
		}
	}
	return false
}

// instructions keeps prose verbatim and lifts code blocks into a following
// examples section.
func (p *parser) instructions(title string, blocks []block) {
	var text []string
	var examples []canonical.Example
	for i, b := range blocks {
		if b.kind != blockCode {
			if i+1 < len(blocks) && blocks[i+1].kind == blockCode && b.kind == blockParagraph && isLabel(b.text) {
				continue
			}
			text = append(text, b.raw)
			continue
		}
		ex := canonical.Example{Code: b.code, Language: b.lang}
		if i > 0 && blocks[i-1].kind == blockParagraph {
			ex.Verdict, ex.Description = verdictOf(blocks[i-1].text)
			if !isLabel(blocks[i-1].text) {
				ex.Description = ""
			}
		}
		examples = append(examples, ex)
	}

	if len(text) > 0 {
		p.emit(&canonical.InstructionsSection{Title: title, Content: strings.Join(text, "\n\n")})
	} else if title != "" && len(examples) > 0 {
		p.emit(&canonical.ExamplesSection{Title: title, Items: examples})
		return
	}
	if len(examples) > 0 {
		p.emit(&canonical.ExamplesSection{Items: examples})
	}
}

func (p *parser) rules(title string, blocks []block) {
	sec := &canonical.RulesSection{Title: title}
	var desc []string
	var stray []canonical.Example
	var pendingLabel string

	for _, b := range blocks {
		switch b.kind {
		case blockList:
			if len(sec.Items) == 0 {
				sec.Ordered = b.ordered
			}
			for _, it := range b.items {
				sec.Items = append(sec.Items, parseRule(it.lines))
			}
		case blockCode:
			ex := canonical.Example{Code: b.code, Language: b.lang}
			if pendingLabel != "" {
				ex.Verdict, ex.Description = verdictOf(pendingLabel)
				pendingLabel = ""
			}
			if n := len(sec.Items); n > 0 {
				sec.Items[n-1].Examples = append(sec.Items[n-1].Examples, ex)
			} else {
				stray = append(stray, ex)
			}
		case blockParagraph:
			if m := rationalePattern.FindStringSubmatch(b.text); m != nil && len(sec.Items) > 0 {
				r := &sec.Items[len(sec.Items)-1]
				r.Rationale = joinNonEmpty(r.Rationale, m[1])
				continue
			}
			if isLabel(b.text) {
				pendingLabel = b.text
				continue
			}
			desc = append(desc, b.raw)
		default:
			desc = append(desc, b.raw)
		}
	}

	if len(sec.Items) == 0 {
		p.instructions(title, blocks)
		return
	}
	sec.Description = strings.Join(desc, "\n\n")
	p.emit(sec)
	if len(stray) > 0 {
		p.emit(&canonical.ExamplesSection{Items: stray})
	}
}

// parseRule splits one list item into rule text, rationale and examples.
func parseRule(lines []string) canonical.Rule {
	var r canonical.Rule
	var content []string
	label := ""
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if m := fencePattern.FindStringSubmatch(line); m != nil {
			b, next := scanFence(lines, i)
			ex := canonical.Example{Code: b.code, Language: b.lang}
			if label != "" {
				ex.Verdict, ex.Description = verdictOf(label)
				label = ""
			}
			r.Examples = append(r.Examples, ex)
			i = next - 1
			continue
		}
		trimmed := strings.TrimSpace(line)
		if m := rationalePattern.FindStringSubmatch(trimmed); m != nil && i > 0 {
			r.Rationale = joinNonEmpty(r.Rationale, m[1])
			continue
		}
		if i > 0 && isLabel(trimmed) {
			label = trimmed
			continue
		}
		content = append(content, line)
	}
	r.Content = strings.TrimSpace(strings.Join(content, "\n"))
	return r
}

// examples pairs each code block with the prose before it.
func (p *parser) examples(title string, blocks []block) {
	sec := &canonical.ExamplesSection{Title: title}
	var pending []string
	for _, b := range blocks {
		if b.kind != blockCode {
			pending = append(pending, b.prose())
			continue
		}
		ex := canonical.Example{Code: b.code, Language: b.lang}
		if len(pending) > 0 {
			ex.Verdict, ex.Description = verdictOf(strings.Join(pending, "\n\n"))
			pending = nil
		}
		sec.Items = append(sec.Items, ex)
	}

	if len(sec.Items) == 0 {
		p.instructions(title, blocks)
		return
	}
	p.emit(sec)
	if len(pending) > 0 {
		p.emit(&canonical.InstructionsSection{Title: notesTitle(title, "Example"), Content: strings.Join(pending, "\n\n")})
	}
}

// toolPattern matches "name: description" with optional bold or code
// markup around the name.
var toolPattern = regexp.MustCompile("^(?:\\*\\*|`)?([^*`:]+?)(?:\\*\\*|`)?\\s*(?::|\\s[-–—])\\s*(.*)$")

func (p *parser) tools(title string, blocks []block) {
	sec := &canonical.ToolsSection{Title: title}
	var rest []block
	for _, b := range blocks {
		if b.kind != blockList {
			rest = append(rest, b)
			continue
		}
		for _, it := range b.items {
			text := strings.TrimSpace(strings.Join(it.lines, " "))
			if text == "" {
				continue
			}
			if m := toolPattern.FindStringSubmatch(text); m != nil {
				sec.Tools = append(sec.Tools, canonical.Tool{Name: strings.TrimSpace(m[1]), Description: strings.TrimSpace(m[2])})
				continue
			}
			sec.Tools = append(sec.Tools, canonical.Tool{Name: strings.Trim(text, "`*")})
		}
	}
	if len(sec.Tools) == 0 {
		p.instructions(title, blocks)
		return
	}
	p.emit(sec)
	if len(rest) > 0 {
		p.instructions(notesTitle(title, "Tool"), rest)
	}
}

func (p *parser) persona(title string, blocks []block) {
	sec := &canonical.PersonaSection{}
	var prose []string
	for _, b := range blocks {
		switch b.kind {
		case blockList:
			for _, it := range b.items {
				key, value, ok := strings.Cut(strings.Join(it.lines, " "), ":")
				if !ok {
					prose = append(prose, strings.TrimSpace(strings.Join(it.lines, " ")))
					continue
				}
				value = strings.TrimSpace(value)
				switch strings.ToLower(strings.Trim(strings.TrimSpace(key), "*_")) {
				case "name":
					sec.Name = value
				case "role":
					sec.Role = value
				case "expertise", "skills":
					for _, e := range strings.Split(value, ",") {
						if e = strings.TrimSpace(e); e != "" {
							sec.Expertise = append(sec.Expertise, e)
						}
					}
				case "style", "tone":
					sec.Style = value
				default:
					prose = append(prose, strings.TrimSpace(strings.Join(it.lines, " ")))
				}
			}
		case blockParagraph:
			prose = append(prose, b.text)
		default:
			prose = append(prose, b.raw)
		}
	}
	if sec.Role == "" && len(prose) > 0 {
		sec.Role, prose = prose[0], prose[1:]
	}
	if len(prose) > 0 {
		sec.Style = joinNonEmpty(sec.Style, strings.Join(prose, " "))
	}
	if sec.Name == "" && sec.Role == "" && sec.Style == "" && len(sec.Expertise) == 0 {
		p.instructions(title, blocks)
		return
	}
	p.emit(sec)
}

func (p *parser) context(title string, blocks []block) {
	raw := make([]string, 0, len(blocks))
	for _, b := range blocks {
		raw = append(raw, b.raw)
	}
	p.emit(&canonical.ContextSection{Title: title, Content: strings.Join(raw, "\n\n")})
}

// labelPattern matches an explicit good/bad label such as "**Good:**",
// "Bad example:" or a check/cross mark.
var labelPattern = regexp.MustCompile(`(?i)^(?:\*\*(good|bad)(?: example)?:?\*\*:?|(good|bad)(?: example)?:|(✅|❌))\s*`)

func isLabel(text string) bool {
	return labelPattern.MatchString(strings.TrimSpace(text))
}

// verdictOf reads a verdict from the prose describing an example. Explicit
// labels are stripped from the returned description; keyword cues are not.
func verdictOf(text string) (canonical.Verdict, string) {
	text = strings.TrimSpace(text)
	if m := labelPattern.FindStringSubmatch(text); m != nil {
		desc := strings.TrimSpace(text[len(m[0]):])
		switch strings.ToLower(m[1] + m[2] + m[3]) {
		case "good", "✅":
			return canonical.VerdictGood, desc
		default:
			return canonical.VerdictBad, desc
		}
	}
	lower := strings.ToLower(text)
	for _, cue := range []string{"avoid", "don't", "do not", "never", "incorrect", "wrong", "anti-pattern"} {
		if strings.HasPrefix(lower, cue) {
			return canonical.VerdictBad, text
		}
	}
	for _, cue := range []string{"prefer", "correct", "do:"} {
		if strings.HasPrefix(lower, cue) {
			return canonical.VerdictGood, text
		}
	}
	return canonical.VerdictNone, text
}

// prose returns the text of a block for use as a description.
func (b block) prose() string {
	if b.text != "" {
		return b.text
	}
	return b.raw
}

func notesTitle(title, fallback string) string {
	if title == "" {
		title = fallback
	}
	return title + " notes"
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
