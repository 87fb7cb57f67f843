package platform

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/markdown"
	"github.com/thoreinstein/canon/pkg/frontmatter"
)

// WarnUnterminatedFrontmatter is reported when an opening "---" has no
// closing delimiter.
const WarnUnterminatedFrontmatter = "frontmatter block is not terminated; decoded as body"

// FieldFunc consumes one frontmatter entry into pkg or meta. It returns
// false for keys the dialect does not define.
type FieldFunc func(e frontmatter.Entry, pkg *canonical.Package, meta *canonical.MetadataSection) bool

// MarkdownDecoder decodes frontmatter-plus-markdown dialects.
type MarkdownDecoder struct {
	Format  format.Format
	Subtype canonical.Subtype
	Field   FieldFunc
}

// NewPackage returns an empty package for f with provenance from hints.
func NewPackage(f format.Format, subtype canonical.Subtype, hints Hints) *canonical.Package {
	if hints.Subtype != "" {
		subtype = hints.Subtype
	}
	return &canonical.Package{
		Name:         hints.Name,
		Format:       f,
		Subtype:      subtype,
		SourceFormat: f,
		SourceURL:    hints.SourceURL,
	}
}

// Decode splits frontmatter from body and maps both. It never fails.
func (d MarkdownDecoder) Decode(raw []byte, hints Hints) (*canonical.Package, []string) {
	pkg := NewPackage(d.Format, d.Subtype, hints)
	meta := pkg.EnsureMetadata()

	var warnings []string
	doc := frontmatter.Split(raw)
	switch {
	case doc.Present && !doc.Closed:
		warnings = append(warnings, WarnUnterminatedFrontmatter)
	case doc.Closed:
		if kept := d.fields(doc.Header, pkg, meta); kept != nil {
			pkg.Sections = append(pkg.Sections, kept)
			warnings = append(warnings, canonical.GapWarning(utf8.RuneCountInString(kept.Content)))
		}
	}

	body := markdown.Parse(string(doc.Body), d.Format)
	if meta.Title == "" {
		meta.Title = body.Title
	}
	pkg.Sections = append(pkg.Sections, body.Sections...)
	warnings = append(warnings, body.Warnings...)

	FinishPackage(pkg)
	return pkg, warnings
}

// fields maps frontmatter entries and returns a custom section holding
// whatever the dialect did not consume, or nil.
func (d MarkdownDecoder) fields(header []byte, pkg *canonical.Package, meta *canonical.MetadataSection) *canonical.CustomSection {
	entries, err := frontmatter.Entries(header)
	if err != nil {
		return &canonical.CustomSection{
			Dialect: d.Format,
			Title:   "frontmatter",
			Content: string(header),
			Slot:    canonical.SlotFrontmatter,
		}
	}

	var unknown []frontmatter.Entry
	for _, e := range entries {
		if d.Field == nil || !d.Field(e, pkg, meta) {
			unknown = append(unknown, e)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	data, err := frontmatter.Marshal(unknown)
	if err != nil {
		return nil
	}
	return &canonical.CustomSection{
		Dialect: d.Format,
		Title:   "frontmatter",
		Content: string(data),
		Slot:    canonical.SlotFrontmatter,
	}
}

// FinishPackage fills package-level fields a decoder derives from the
// metadata section.
func FinishPackage(pkg *canonical.Package) {
	meta := pkg.EnsureMetadata()
	if pkg.Description == "" {
		pkg.Description = meta.Description
	}
	if pkg.Author == "" {
		pkg.Author = meta.Author
	}
	if pkg.Name == "" {
		pkg.Name = Slug(meta.Title)
	}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and joins its alphanumeric runs with hyphens.
func Slug(s string) string {
	return strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// CheckEncodable returns the package's metadata section, or an error
// marked with errors.ErrInvalidPackage.
func CheckEncodable(pkg *canonical.Package) (*canonical.MetadataSection, error) {
	if pkg == nil {
		return nil, errors.Mark(errors.New("nil package"), errors.ErrInvalidPackage)
	}
	meta := pkg.Metadata()
	if meta == nil {
		return nil, errors.Mark(errors.New("package has no metadata section"), errors.ErrInvalidPackage)
	}
	return meta, nil
}

// RestoredFrontmatter returns the frontmatter kept from a previous decode of
// the same dialect, without any of the written keys the encoder already
// emits. A kept header that is not a YAML mapping is returned verbatim.
func RestoredFrontmatter(pkg *canonical.Package, f format.Format, written ...string) []byte {
	var b strings.Builder
	for _, s := range pkg.Sections {
		c, ok := s.(*canonical.CustomSection)
		if !ok || c.Dialect != f || c.Slot != canonical.SlotFrontmatter || c.Executable {
			continue
		}
		b.WriteString(c.Content)
		if !strings.HasSuffix(c.Content, "\n") {
			b.WriteByte('\n')
		}
	}
	if b.Len() == 0 {
		return nil
	}
	raw := []byte(b.String())
	if len(written) == 0 {
		return raw
	}

	entries, err := frontmatter.Entries(raw)
	if err != nil {
		return raw
	}
	kept := slices.DeleteFunc(entries, func(e frontmatter.Entry) bool {
		return slices.Contains(written, e.Key)
	})
	data, err := frontmatter.Marshal(kept)
	if err != nil {
		return raw
	}
	return data
}

// RenderBody renders the package body for f, leaving out every kind caps
// drops and every kind in skip (kinds the dialect carries outside the body).
func RenderBody(pkg *canonical.Package, f format.Format, caps Capabilities, skip ...canonical.Kind) string {
	title := ""
	if meta := pkg.Metadata(); meta != nil {
		title = meta.Title
	}
	r := markdown.Renderer{
		Dialect:       f,
		CollapseRules: caps.CollapsesRules,
		Omit: func(s canonical.Section) bool {
			if c, ok := s.(*canonical.CustomSection); ok && c.Executable {
				return true
			}
			return caps.Support(s.Kind()) == Drop || slices.Contains(skip, s.Kind())
		},
	}
	return r.Render(title, pkg.Sections)
}

// Tools returns the non-executable tools of every tools section.
func Tools(pkg *canonical.Package) []canonical.Tool {
	var out []canonical.Tool
	for _, s := range pkg.Sections {
		ts, ok := s.(*canonical.ToolsSection)
		if !ok {
			continue
		}
		for _, t := range ts.Tools {
			if !t.Executable() {
				out = append(out, t)
			}
		}
	}
	return out
}

// ToolNames returns the names of Tools(pkg).
func ToolNames(pkg *canonical.Package) []string {
	tools := Tools(pkg)
	if len(tools) == 0 {
		return nil
	}
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = t.Name
	}
	return out
}
