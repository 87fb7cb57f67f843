package markdown

import (
	"strconv"
	"strings"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/format"
)

// Renderer writes canonical sections back to markdown for one dialect.
type Renderer struct {
	// Dialect selects which custom sections are restored.
	Dialect format.Format

	// Omit, when set, reports sections to leave out entirely.
	Omit func(canonical.Section) bool

	// CollapseRules renders each rules section as a single prose paragraph.
	CollapseRules bool
}

// Render returns the markdown body. A non-empty title becomes a leading H1.
func (r Renderer) Render(title string, sections []canonical.Section) string {
	w := &writer{r: r}
	if title != "" {
		w.add("# " + title)
	}
	for _, s := range sections {
		if s == nil || (r.Omit != nil && r.Omit(s)) {
			continue
		}
		n := len(w.blocks)
		_ = s.Accept(w)
		if len(w.blocks) > n {
			w.written++
		}
	}
	if len(w.blocks) == 0 {
		return ""
	}
	return strings.Join(w.blocks, "\n\n") + "\n"
}

type writer struct {
	r       Renderer
	blocks  []string
	written int
}

func (w *writer) add(b string) {
	if b = strings.TrimRight(b, "\n"); b != "" {
		w.blocks = append(w.blocks, b)
	}
}

// heading returns a heading that classifies back to kind.
func heading(title string, kind canonical.Kind, fallback string) string {
	if title == "" {
		return "## " + fallback
	}
	if k, _ := Classify(title); k != kind {
		return "## " + title + " " + fallback
	}
	return "## " + title
}

func (w *writer) VisitMetadata(*canonical.MetadataSection) error { return nil }

func (w *writer) VisitInstructions(s *canonical.InstructionsSection) error {
	switch {
	case s.Title != "":
		w.add("## " + s.Title)
	case w.written > 0:
		// Untitled text would otherwise merge into the previous section.
		w.add("## Instructions")
	}
	w.add(s.Content)
	return nil
}

func (w *writer) VisitRules(s *canonical.RulesSection) error {
	w.add(heading(s.Title, canonical.KindRules, "Rules"))
	if w.r.CollapseRules {
		w.add(CollapseRules(s))
		return nil
	}
	w.add(s.Description)

	var list strings.Builder
	for i, rule := range s.Items {
		marker := "- "
		if s.Ordered {
			marker = strconv.Itoa(i+1) + ". "
		}
		indent := strings.Repeat(" ", len(marker))
		lines := strings.Split(rule.Content, "\n")
		list.WriteString(marker + lines[0] + "\n")
		for _, l := range lines[1:] {
			writeIndented(&list, indent, l)
		}
		if rule.Rationale != "" {
			writeIndented(&list, indent, "Rationale: "+rule.Rationale)
		}
		for _, ex := range rule.Examples {
			if label := exampleLabel(ex); label != "" {
				writeIndented(&list, indent, label)
			}
			for _, l := range strings.Split(fence(ex), "\n") {
				writeIndented(&list, indent, l)
			}
		}
	}
	w.add(list.String())
	return nil
}

func writeIndented(b *strings.Builder, indent, line string) {
	if line == "" {
		b.WriteString("\n")
		return
	}
	b.WriteString(indent + line + "\n")
}

// CollapseRules flattens a rules section into one sentence list.
func CollapseRules(s *canonical.RulesSection) string {
	parts := make([]string, 0, len(s.Items)+1)
	if s.Description != "" {
		parts = append(parts, strings.TrimSpace(s.Description))
	}
	label := s.Title
	if label == "" {
		label = "Rules"
	}
	var items []string
	for _, r := range s.Items {
		text := strings.Join(strings.Fields(r.Content), " ")
		if !strings.HasSuffix(text, ".") {
			text += "."
		}
		items = append(items, text)
	}
	parts = append(parts, label+": "+strings.Join(items, " "))
	return strings.Join(parts, "\n\n")
}

func (w *writer) VisitExamples(s *canonical.ExamplesSection) error {
	w.add(heading(s.Title, canonical.KindExamples, "Examples"))
	for _, ex := range s.Items {
		w.add(exampleLabel(ex))
		w.add(fence(ex))
	}
	return nil
}

func exampleLabel(ex canonical.Example) string {
	desc := strings.TrimSpace(ex.Description)
	switch ex.Verdict {
	case canonical.VerdictGood:
		return strings.TrimSpace("**Good:** " + desc)
	case canonical.VerdictBad:
		return strings.TrimSpace("**Bad:** " + desc)
	}
	return desc
}

// fence wraps code in a backtick fence longer than any run inside it.
func fence(ex canonical.Example) string {
	longest, run := 0, 0
	for _, c := range ex.Code {
		if c == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	ticks := strings.Repeat("`", max(3, longest+1))
	return ticks + ex.Language + "\n" + ex.Code + "\n" + ticks
}

func (w *writer) VisitTools(s *canonical.ToolsSection) error {
	w.add(heading(s.Title, canonical.KindTools, "Tools"))
	var list strings.Builder
	for _, t := range s.Tools {
		if t.Description != "" {
			list.WriteString("- " + t.Name + ": " + t.Description + "\n")
		} else {
			list.WriteString("- " + t.Name + "\n")
		}
	}
	w.add(list.String())
	return nil
}

func (w *writer) VisitPersona(s *canonical.PersonaSection) error {
	w.add("## Persona")
	var list strings.Builder
	field := func(k, v string) {
		if v != "" {
			list.WriteString("- " + k + ": " + v + "\n")
		}
	}
	field("Name", s.Name)
	field("Role", s.Role)
	field("Expertise", strings.Join(s.Expertise, ", "))
	field("Style", s.Style)
	w.add(list.String())
	return nil
}

func (w *writer) VisitContext(s *canonical.ContextSection) error {
	w.add(heading(s.Title, canonical.KindContext, "Context"))
	w.add(s.Content)
	return nil
}

func (w *writer) VisitCustom(s *canonical.CustomSection) error {
	if s.Dialect == w.r.Dialect && s.Slot != canonical.SlotFrontmatter {
		w.add(s.Content)
	}
	return nil
}
