package canonical

import (
	"fmt"
	"strings"
)

// ValidationError describes one problem with a package. Section is the
// index of the offending section, or -1 for package-level problems.
type ValidationError struct {
	Section int
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Section < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("sections[%d].%s: %s", e.Section, e.Field, e.Message)
}

// Validate reports structural problems. It never panics and never fails:
// callers decide whether to proceed.
func Validate(p *Package) []ValidationError {
	if p == nil {
		return []ValidationError{{Section: -1, Field: "package", Message: "package is nil"}}
	}

	var errs []ValidationError
	if len(p.Sections) == 0 {
		return append(errs, ValidationError{Section: -1, Field: "sections", Message: "package has no sections"})
	}
	if p.Subtype != "" && !p.Subtype.Valid() {
		errs = append(errs, ValidationError{Section: -1, Field: "subtype", Message: fmt.Sprintf("unknown subtype %q", p.Subtype)})
	}
	if p.Metadata() == nil {
		errs = append(errs, ValidationError{Section: -1, Field: "sections", Message: "package has no metadata section"})
	}

	v := &validator{}
	for i, s := range p.Sections {
		if s == nil {
			errs = append(errs, ValidationError{Section: i, Field: "type", Message: "section is nil"})
			continue
		}
		v.index = i
		_ = s.Accept(v)
	}
	return append(errs, v.errs...)
}

type validator struct {
	index int
	errs  []ValidationError
}

func (v *validator) add(field, msg string) {
	v.errs = append(v.errs, ValidationError{Section: v.index, Field: field, Message: msg})
}

func (v *validator) VisitMetadata(*MetadataSection) error { return nil }

func (v *validator) VisitInstructions(s *InstructionsSection) error {
	if strings.TrimSpace(s.Content) == "" {
		v.add("content", "instructions section is empty")
	}
	switch s.Priority {
	case "", PriorityHigh, PriorityNormal, PriorityLow:
	default:
		v.add("priority", fmt.Sprintf("unknown priority %q", s.Priority))
	}
	return nil
}

func (v *validator) VisitRules(s *RulesSection) error {
	if len(s.Items) == 0 {
		v.add("items", "rules section has no rules")
	}
	for i, r := range s.Items {
		if strings.TrimSpace(r.Content) == "" {
			v.add(fmt.Sprintf("items[%d].content", i), "rule is empty")
		}
		for j, ex := range r.Examples {
			if strings.TrimSpace(ex.Code) == "" {
				v.add(fmt.Sprintf("items[%d].examples[%d].code", i, j), "example has no code")
			}
		}
	}
	return nil
}

func (v *validator) VisitExamples(s *ExamplesSection) error {
	if len(s.Items) == 0 {
		v.add("items", "examples section has no examples")
	}
	for i, ex := range s.Items {
		if strings.TrimSpace(ex.Code) == "" {
			v.add(fmt.Sprintf("items[%d].code", i), "example has no code")
		}
		switch ex.Verdict {
		case VerdictNone, VerdictGood, VerdictBad:
		default:
			v.add(fmt.Sprintf("items[%d].verdict", i), fmt.Sprintf("unknown verdict %q", ex.Verdict))
		}
	}
	return nil
}

func (v *validator) VisitTools(s *ToolsSection) error {
	for i, t := range s.Tools {
		if strings.TrimSpace(t.Name) == "" {
			v.add(fmt.Sprintf("tools[%d].name", i), "tool has no name")
		}
	}
	return nil
}

func (v *validator) VisitPersona(*PersonaSection) error { return nil }

func (v *validator) VisitContext(s *ContextSection) error {
	if strings.TrimSpace(s.Content) == "" {
		v.add("content", "context section is empty")
	}
	return nil
}

func (v *validator) VisitCustom(s *CustomSection) error {
	switch {
	case s.Dialect == "":
		v.add("dialect", "custom section has no dialect tag")
	case !s.Dialect.Valid():
		v.add("dialect", fmt.Sprintf("undeclared dialect %q", s.Dialect))
	}
	return nil
}
