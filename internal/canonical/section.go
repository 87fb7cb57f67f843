package canonical

import (
	"github.com/thoreinstein/canon/internal/format"
)

// Kind is the discriminator of a Section variant.
type Kind string

// Section kinds.
const (
	KindMetadata     Kind = "metadata"
	KindInstructions Kind = "instructions"
	KindRules        Kind = "rules"
	KindExamples     Kind = "examples"
	KindTools        Kind = "tools"
	KindPersona      Kind = "persona"
	KindContext      Kind = "context"
	KindCustom       Kind = "custom"
)

// Kinds lists every section kind in canonical order.
func Kinds() []Kind {
	return []Kind{
		KindMetadata, KindInstructions, KindRules, KindExamples,
		KindTools, KindPersona, KindContext, KindCustom,
	}
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Section is one block of a package body. The set of implementations is
// closed; see SectionVisitor.
type Section interface {
	Kind() Kind
	Accept(v SectionVisitor) error
	clone() Section
}

// SectionVisitor handles every Section variant.
type SectionVisitor interface {
	VisitMetadata(*MetadataSection) error
	VisitInstructions(*InstructionsSection) error
	VisitRules(*RulesSection) error
	VisitExamples(*ExamplesSection) error
	VisitTools(*ToolsSection) error
	VisitPersona(*PersonaSection) error
	VisitContext(*ContextSection) error
	VisitCustom(*CustomSection) error
}

// Walk visits sections in order, stopping at the first error.
func Walk(sections []Section, v SectionVisitor) error {
	for _, s := range sections {
		if err := s.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

// MetadataSection carries descriptive fields and portable hints.
type MetadataSection struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Author       string `json:"author,omitempty"`
	Model        string `json:"model,omitempty"`
	License      string `json:"license,omitempty"`
	ArgumentHint string `json:"argumentHint,omitempty"`
}

// Hint names a portable metadata field that not every dialect can carry.
type Hint string

// Portable metadata hints.
const (
	HintModel        Hint = "model"
	HintIcon         Hint = "icon"
	HintLicense      Hint = "license"
	HintArgumentHint Hint = "argumentHint"
)

// Hints returns the portable hints set on m, in a fixed order.
func (m *MetadataSection) Hints() []Hint {
	var out []Hint
	if m.Model != "" {
		out = append(out, HintModel)
	}
	if m.Icon != "" {
		out = append(out, HintIcon)
	}
	if m.License != "" {
		out = append(out, HintLicense)
	}
	if m.ArgumentHint != "" {
		out = append(out, HintArgumentHint)
	}
	return out
}

func (*MetadataSection) Kind() Kind                      { return KindMetadata }
func (m *MetadataSection) Accept(v SectionVisitor) error { return v.VisitMetadata(m) }
func (m *MetadataSection) clone() Section                { c := *m; return &c }

// Priority orders instruction blocks.
type Priority string

// Instruction priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// InstructionsSection is free-form guidance.
type InstructionsSection struct {
	Title    string   `json:"title,omitempty"`
	Content  string   `json:"content"`
	Priority Priority `json:"priority,omitempty"`
}

func (*InstructionsSection) Kind() Kind                      { return KindInstructions }
func (s *InstructionsSection) Accept(v SectionVisitor) error { return v.VisitInstructions(s) }
func (s *InstructionsSection) clone() Section                { c := *s; return &c }

// Rule is one atomic directive.
type Rule struct {
	Content   string    `json:"content"`
	Rationale string    `json:"rationale,omitempty"`
	Examples  []Example `json:"examples,omitempty"`
}

// RulesSection is a list of rules, optionally ordered.
type RulesSection struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Ordered     bool   `json:"ordered,omitempty"`
	Items       []Rule `json:"items"`
}

func (*RulesSection) Kind() Kind                      { return KindRules }
func (s *RulesSection) Accept(v SectionVisitor) error { return v.VisitRules(s) }
func (s *RulesSection) clone() Section {
	c := *s
	c.Items = make([]Rule, len(s.Items))
	for i, r := range s.Items {
		r.Examples = append([]Example(nil), r.Examples...)
		c.Items[i] = r
	}
	return &c
}

// Verdict marks an example as one to follow or one to avoid.
type Verdict string

// Example verdicts. The zero value is a neutral illustration.
const (
	VerdictNone Verdict = ""
	VerdictGood Verdict = "good"
	VerdictBad  Verdict = "bad"
)

// Example is a code snippet with an optional description.
type Example struct {
	Description string  `json:"description,omitempty"`
	Code        string  `json:"code"`
	Language    string  `json:"language,omitempty"`
	Verdict     Verdict `json:"verdict,omitempty"`
}

// ExamplesSection groups examples under one heading.
type ExamplesSection struct {
	Title string    `json:"title,omitempty"`
	Items []Example `json:"items"`
}

func (*ExamplesSection) Kind() Kind                      { return KindExamples }
func (s *ExamplesSection) Accept(v SectionVisitor) error { return v.VisitExamples(s) }
func (s *ExamplesSection) clone() Section {
	c := *s
	c.Items = append([]Example(nil), s.Items...)
	return &c
}

// Tool is a named capability. A tool with a Command is an executable
// definition and is never carried into a rendering.
type Tool struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Command     string   `json:"command,omitempty"`
	Args        []string `json:"args,omitempty"`
}

// Executable reports whether the tool defines something to run.
func (t Tool) Executable() bool { return t.Command != "" }

// ToolsSection lists capabilities a dialect may grant.
type ToolsSection struct {
	Title string `json:"title,omitempty"`
	Tools []Tool `json:"tools"`
}

// Names returns the tool names in order.
func (s *ToolsSection) Names() []string {
	out := make([]string, 0, len(s.Tools))
	for _, t := range s.Tools {
		out = append(out, t.Name)
	}
	return out
}

func (*ToolsSection) Kind() Kind                      { return KindTools }
func (s *ToolsSection) Accept(v SectionVisitor) error { return v.VisitTools(s) }
func (s *ToolsSection) clone() Section {
	c := *s
	c.Tools = make([]Tool, len(s.Tools))
	for i, t := range s.Tools {
		t.Args = append([]string(nil), t.Args...)
		c.Tools[i] = t
	}
	return &c
}

// PersonaSection describes who the assistant should act as.
type PersonaSection struct {
	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role,omitempty"`
	Expertise []string `json:"expertise,omitempty"`
	Style     string   `json:"style,omitempty"`
}

func (*PersonaSection) Kind() Kind                      { return KindPersona }
func (s *PersonaSection) Accept(v SectionVisitor) error { return v.VisitPersona(s) }
func (s *PersonaSection) clone() Section {
	c := *s
	c.Expertise = append([]string(nil), s.Expertise...)
	return &c
}

// ContextSection is supplementary background.
type ContextSection struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

func (*ContextSection) Kind() Kind                      { return KindContext }
func (s *ContextSection) Accept(v SectionVisitor) error { return v.VisitContext(s) }
func (s *ContextSection) clone() Section                { c := *s; return &c }

// Slot says where a custom section came from in its dialect.
type Slot string

// Custom section slots.
const (
	SlotBody        Slot = "body"
	SlotFrontmatter Slot = "frontmatter"
)

// CustomSection preserves dialect-specific content verbatim. Only an
// encoder for Dialect restores it.
type CustomSection struct {
	Dialect    format.Format `json:"dialect"`
	Title      string        `json:"title,omitempty"`
	Content    string        `json:"content"`
	Slot       Slot          `json:"slot,omitempty"`
	Executable bool          `json:"executable,omitempty"`
}

func (*CustomSection) Kind() Kind                      { return KindCustom }
func (s *CustomSection) Accept(v SectionVisitor) error { return v.VisitCustom(s) }
func (s *CustomSection) clone() Section                { c := *s; return &c }

// NewSection returns a zero value of the variant for kind, or nil.
func NewSection(kind Kind) Section {
	switch kind {
	case KindMetadata:
		return &MetadataSection{}
	case KindInstructions:
		return &InstructionsSection{}
	case KindRules:
		return &RulesSection{}
	case KindExamples:
		return &ExamplesSection{}
	case KindTools:
		return &ToolsSection{}
	case KindPersona:
		return &PersonaSection{}
	case KindContext:
		return &ContextSection{}
	case KindCustom:
		return &CustomSection{}
	}
	return nil
}
