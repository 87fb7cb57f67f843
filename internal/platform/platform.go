package platform

import (
	"slices"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/format"
)

// Hints carries caller knowledge a decoder cannot get from the bytes alone.
type Hints struct {
	// Name is the artifact name, usually derived from its file name.
	Name string

	// Subtype overrides the dialect's default subtype.
	Subtype canonical.Subtype

	// SourceURL is recorded as provenance.
	SourceURL string
}

// Options are caller-supplied encoder settings. An empty field means "not
// supplied"; encoders then fall back to the package's own config for the
// same dialect and never to another dialect's.
type Options struct {
	// Name is the artifact identifier for claude-skill, claude-agent and
	// kiro-agent.
	Name string

	// Globs and AlwaysApply scope a cursor rule.
	Globs       []string
	AlwaysApply *bool

	// Inclusion, FileMatchPattern and Domain scope a kiro steering file.
	Inclusion        string
	FileMatchPattern string
	Domain           string

	// ApplyTo is a comma-separated glob list for copilot.
	ApplyTo string
}

// Support is how well a dialect carries a section kind.
type Support int

const (
	// Drop means the dialect has nowhere to put the section.
	Drop Support = iota

	// Approximate means the content survives in a weaker form.
	Approximate

	// Native means the dialect has a direct equivalent.
	Native
)

func (s Support) String() string {
	switch s {
	case Native:
		return "native"
	case Approximate:
		return "approximate"
	default:
		return "drop"
	}
}

// Capabilities describes what an encoder can carry.
type Capabilities struct {
	// Sections maps each kind to its support level. Missing kinds are
	// dropped. Custom sections are listed as Native because an encoder
	// always restores its own dialect's custom content.
	Sections map[canonical.Kind]Support

	// Hints lists the portable metadata hints the dialect can express.
	Hints []canonical.Hint

	// CollapsesRules reports that rule items are flattened into prose.
	CollapsesRules bool

	// Required names the options the encoder refuses to default.
	Required []string
}

// Support returns the support level for kind.
func (c Capabilities) Support(kind canonical.Kind) Support {
	return c.Sections[kind]
}

// CarriesHint reports whether h survives encoding.
func (c Capabilities) CarriesHint(h canonical.Hint) bool {
	return slices.Contains(c.Hints, h)
}

// Rendering is the encoded artifact.
type Rendering struct {
	Format   format.Format
	Content  string
	Warnings []string
}

// Decoder maps raw artifact bytes onto a canonical package. Decode is total:
// it returns a package with at least one section for any input, plus
// warnings for anything it kept verbatim.
type Decoder interface {
	Format() format.Format
	Decode(raw []byte, hints Hints) (*canonical.Package, []string)
}

// Encoder renders a canonical package as one dialect.
type Encoder interface {
	Format() format.Format
	Capabilities() Capabilities
	Encode(pkg *canonical.Package, opts Options) (*Rendering, error)
}

// Codec is both directions of one dialect.
type Codec interface {
	Decoder
	Encoder
}

// markdownKinds is the support table shared by plain markdown dialects.
func markdownKinds() map[canonical.Kind]Support {
	return map[canonical.Kind]Support{
		canonical.KindMetadata:     Native,
		canonical.KindInstructions: Native,
		canonical.KindRules:        Native,
		canonical.KindExamples:     Native,
		canonical.KindTools:        Drop,
		canonical.KindPersona:      Approximate,
		canonical.KindContext:      Native,
		canonical.KindCustom:       Native,
	}
}

// MarkdownCapabilities returns the baseline capabilities of a markdown
// dialect: everything but tools survives, and persona is approximated as a
// list. Callers adjust the result for their dialect.
func MarkdownCapabilities(required ...string) Capabilities {
	return Capabilities{
		Sections: markdownKinds(),
		Required: required,
	}
}
