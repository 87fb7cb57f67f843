package quality

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/markdown"
)

// Stats summarizes the structure of a markdown document.
type Stats struct {
	// Text is the plain prose with markup, code and HTML removed.
	Text string

	Headings   int
	CodeBlocks int
	ListItems  int
}

// Runes returns the length of the plain text in characters.
func (s Stats) Runes() int {
	return utf8.RuneCountInString(s.Text)
}

var parser = goldmark.New().Parser()

// Extract parses md and collects its plain text and block counts.
func Extract(md string) Stats {
	src := []byte(md)
	doc := parser.Parse(text.NewReader(src))

	var st Stats
	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			st.Headings++
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			st.CodeBlocks++
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			st.ListItems++
		case *ast.Text:
			b.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})
	st.Text = strings.TrimSpace(b.String())
	return st
}

// PackageText renders the portable body of pkg as markdown. The title and
// dialect-specific custom content are left out.
func PackageText(pkg *canonical.Package) string {
	if pkg == nil {
		return ""
	}
	r := markdown.Renderer{
		Dialect: format.Generic,
		Omit: func(s canonical.Section) bool {
			return s.Kind() == canonical.KindCustom
		},
	}
	return r.Render("", pkg.Sections)
}
