// Package generic is the plain markdown fallback dialect, used for files
// such as AGENTS.md that follow no tool's conventions.
package generic

import (
	"strings"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/markdown"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/pkg/frontmatter"
)

// Codec converts plain markdown.
type Codec struct{}

// New returns the generic codec.
func New() *Codec {
	return &Codec{}
}

func (*Codec) Format() format.Format { return format.Generic }

// Capabilities: plain markdown can list tools but not grant them.
func (*Codec) Capabilities() platform.Capabilities {
	caps := platform.MarkdownCapabilities()
	caps.Sections[canonical.KindTools] = platform.Approximate
	return caps
}

// decoder keeps any frontmatter verbatim; generic markdown defines no keys.
var decoder = platform.MarkdownDecoder{
	Format:  format.Generic,
	Subtype: canonical.SubtypePrompt,
}

// Decode maps plain markdown. A blockquote directly under the title is the
// description.
func (*Codec) Decode(raw []byte, hints platform.Hints) (*canonical.Package, []string) {
	doc := frontmatter.Split(raw)
	desc, rest := splitDescription(string(doc.Body))
	if desc == "" {
		return decoder.Decode(raw, hints)
	}

	// Re-assemble without the blockquote so the shared decoder sees the
	// same frontmatter.
	trimmed := rest
	if doc.Closed {
		trimmed = "---\n" + string(doc.Header) + "---\n" + rest
	}
	pkg, warnings := decoder.Decode([]byte(trimmed), hints)
	pkg.Metadata().Description = desc
	pkg.Description = desc
	return pkg, warnings
}

// splitDescription removes a blockquote that follows an optional leading H1
// and returns its text.
func splitDescription(body string) (string, string) {
	lines := strings.Split(body, "\n")
	i := 0
	skipBlank := func() {
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
	}
	skipBlank()
	if i < len(lines) && strings.HasPrefix(lines[i], "# ") {
		i++
		skipBlank()
	}
	start := i
	var quote []string
	for i < len(lines) && strings.HasPrefix(lines[i], ">") {
		quote = append(quote, strings.TrimSpace(strings.TrimPrefix(lines[i], ">")))
		i++
	}
	if len(quote) == 0 {
		return "", body
	}
	desc := strings.TrimSpace(strings.Join(quote, " "))
	rest := append(append([]string{}, lines[:start]...), lines[i:]...)
	return desc, strings.Join(rest, "\n")
}

// Encode renders plain markdown. Tools become a bulleted list; the
// description becomes a blockquote under the title.
func (c *Codec) Encode(pkg *canonical.Package, _ platform.Options) (*platform.Rendering, error) {
	meta, err := platform.CheckEncodable(pkg)
	if err != nil {
		return nil, err
	}

	var parts []string
	if meta.Title != "" {
		parts = append(parts, "# "+meta.Title)
	}
	if meta.Description != "" {
		parts = append(parts, "> "+strings.Join(strings.Fields(meta.Description), " "))
	}
	r := markdown.Renderer{
		Dialect: format.Generic,
		Omit: func(s canonical.Section) bool {
			cs, ok := s.(*canonical.CustomSection)
			return ok && cs.Executable
		},
	}
	if body := strings.TrimRight(r.Render("", pkg.Sections), "\n"); body != "" {
		parts = append(parts, body)
	}
	content := strings.Join(parts, "\n\n") + "\n"

	if extra := platform.RestoredFrontmatter(pkg, format.Generic); extra != nil {
		content = "---\n" + string(extra) + "---\n\n" + content
	}
	return &platform.Rendering{Format: format.Generic, Content: content}, nil
}
