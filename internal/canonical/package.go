package canonical

import (
	"maps"
	"slices"

	"github.com/thoreinstein/canon/internal/format"
)

// Subtype classifies what a package is for.
type Subtype string

// Package subtypes.
const (
	SubtypeRule         Subtype = "rule"
	SubtypeAgent        Subtype = "agent"
	SubtypeSkill        Subtype = "skill"
	SubtypeSlashCommand Subtype = "slash-command"
	SubtypePrompt       Subtype = "prompt"
	SubtypeWorkflow     Subtype = "workflow"
	SubtypeTool         Subtype = "tool"
	SubtypeTemplate     Subtype = "template"
	SubtypeCollection   Subtype = "collection"
	SubtypeChatmode     Subtype = "chatmode"
)

var subtypes = []Subtype{
	SubtypeRule, SubtypeAgent, SubtypeSkill, SubtypeSlashCommand, SubtypePrompt,
	SubtypeWorkflow, SubtypeTool, SubtypeTemplate, SubtypeCollection, SubtypeChatmode,
}

// Valid reports whether s is a known subtype.
func (s Subtype) Valid() bool {
	return slices.Contains(subtypes, s)
}

// Package is the unit of exchange between dialects.
type Package struct {
	ID          string
	Version     string
	Name        string
	Description string
	Author      string
	Tags        []string

	// Format is the dialect family the package was authored for.
	Format  format.Format
	Subtype Subtype

	Sections []Section
	Configs  Configs

	// Compatibility holds the last conversion score per target dialect.
	Compatibility map[format.Format]int

	SourceFormat format.Format
	SourceURL    string
}

// Metadata returns the first metadata section, or nil.
func (p *Package) Metadata() *MetadataSection {
	for _, s := range p.Sections {
		if m, ok := s.(*MetadataSection); ok {
			return m
		}
	}
	return nil
}

// EnsureMetadata returns the first metadata section, prepending an empty
// one if the package has none.
func (p *Package) EnsureMetadata() *MetadataSection {
	if m := p.Metadata(); m != nil {
		return m
	}
	m := &MetadataSection{}
	p.Sections = append([]Section{m}, p.Sections...)
	return m
}

// Count returns how many sections of kind the package holds.
func (p *Package) Count(kind Kind) int {
	n := 0
	for _, s := range p.Sections {
		if s.Kind() == kind {
			n++
		}
	}
	return n
}

// RuleCount returns the total number of rule items across sections.
func (p *Package) RuleCount() int {
	n := 0
	for _, s := range p.Sections {
		if r, ok := s.(*RulesSection); ok {
			n += len(r.Items)
		}
	}
	return n
}

// Clone returns a deep copy. Nil sections are not copied.
func (p *Package) Clone() *Package {
	if p == nil {
		return nil
	}
	c := *p
	c.Tags = slices.Clone(p.Tags)
	c.Sections = make([]Section, 0, len(p.Sections))
	for _, s := range p.Sections {
		if s == nil {
			continue
		}
		c.Sections = append(c.Sections, s.clone())
	}
	c.Configs = p.Configs.clone()
	c.Compatibility = maps.Clone(p.Compatibility)
	return &c
}

// SetCompatibility records a conversion score for a target dialect.
func (p *Package) SetCompatibility(f format.Format, score int) {
	if p.Compatibility == nil {
		p.Compatibility = make(map[format.Format]int)
	}
	p.Compatibility[f] = score
}
