// Package cursor converts Cursor rule files (.mdc).
package cursor

import (
	"strings"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/pkg/frontmatter"
)

// FieldAlwaysApply is the option a cursor rule cannot be written without
// unless globs are supplied.
const FieldAlwaysApply = "alwaysApply"

// Codec converts cursor rules.
type Codec struct{}

// New returns the cursor codec.
func New() *Codec {
	return &Codec{}
}

func (*Codec) Format() format.Format { return format.Cursor }

func (*Codec) Capabilities() platform.Capabilities {
	return platform.MarkdownCapabilities(FieldAlwaysApply)
}

// matter is the .mdc frontmatter. Cursor writes globs as one
// comma-separated string.
type matter struct {
	Description string `yaml:"description,omitempty"`
	Globs       string `yaml:"globs,omitempty"`
	AlwaysApply bool   `yaml:"alwaysApply"`
}

var decoder = platform.MarkdownDecoder{
	Format:  format.Cursor,
	Subtype: canonical.SubtypeRule,
	Field: func(e frontmatter.Entry, pkg *canonical.Package, meta *canonical.MetadataSection) bool {
		switch e.Key {
		case "description":
			meta.Description = e.String()
		case "globs":
			config(pkg).Globs = e.Strings()
		case "alwaysApply":
			b, ok := e.Bool()
			if !ok {
				return false
			}
			config(pkg).AlwaysApply = &b
		default:
			return false
		}
		return true
	},
}

func config(pkg *canonical.Package) *canonical.CursorConfig {
	if pkg.Configs.Cursor == nil {
		pkg.Configs.Cursor = &canonical.CursorConfig{}
	}
	return pkg.Configs.Cursor
}

func (*Codec) Decode(raw []byte, hints platform.Hints) (*canonical.Package, []string) {
	return decoder.Decode(raw, hints)
}

// Encode renders an .mdc rule. Either alwaysApply or globs must be known,
// from opts or from the package's own cursor config.
func (c *Codec) Encode(pkg *canonical.Package, opts platform.Options) (*platform.Rendering, error) {
	meta, err := platform.CheckEncodable(pkg)
	if err != nil {
		return nil, err
	}

	var cfg canonical.CursorConfig
	if pkg.Configs.Cursor != nil {
		cfg = *pkg.Configs.Cursor
	}
	globs := opts.Globs
	if len(globs) == 0 {
		globs = cfg.Globs
	}
	always := opts.AlwaysApply
	if always == nil {
		always = cfg.AlwaysApply
	}
	if always == nil {
		if len(globs) == 0 {
			return nil, &errors.MissingOptionError{
				Format: format.Cursor.String(),
				Field:  FieldAlwaysApply,
				Reason: "set alwaysApply or provide globs",
			}
		}
		always = canonical.Bool(false)
	}
	if err := platform.ValidateGlobs(format.Cursor, "globs", globs); err != nil {
		return nil, err
	}

	var warnings []string
	if !*always && len(globs) == 0 && meta.Description == "" {
		warnings = append(warnings, "rule has no globs and no description; Cursor will only apply it when mentioned")
	}

	m := matter{
		Description: meta.Description,
		Globs:       strings.Join(globs, ","),
		AlwaysApply: *always,
	}
	body := platform.RenderBody(pkg, format.Cursor, c.Capabilities())
	keys, err := frontmatter.Keys(m)
	if err != nil {
		return nil, errors.Wrap(err, "formatting cursor rule")
	}
	data, err := frontmatter.Format(m, platform.RestoredFrontmatter(pkg, format.Cursor, keys...), body)
	if err != nil {
		return nil, errors.Wrap(err, "formatting cursor rule")
	}
	return &platform.Rendering{Format: format.Cursor, Content: string(data), Warnings: warnings}, nil
}
