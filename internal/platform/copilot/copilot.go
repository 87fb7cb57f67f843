// Package copilot converts GitHub Copilot path-scoped instruction files
// (.instructions.md).
package copilot

import (
	"strings"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/pkg/frontmatter"
)

// FieldApplyTo is the required scope option.
const FieldApplyTo = "applyTo"

// Codec converts copilot instruction files.
type Codec struct{}

// New returns the copilot codec.
func New() *Codec {
	return &Codec{}
}

func (*Codec) Format() format.Format { return format.Copilot }

func (*Codec) Capabilities() platform.Capabilities {
	return platform.MarkdownCapabilities(FieldApplyTo)
}

type matter struct {
	ApplyTo     string `yaml:"applyTo"`
	Description string `yaml:"description,omitempty"`
}

var decoder = platform.MarkdownDecoder{
	Format:  format.Copilot,
	Subtype: canonical.SubtypeRule,
	Field: func(e frontmatter.Entry, pkg *canonical.Package, meta *canonical.MetadataSection) bool {
		switch e.Key {
		case "applyTo":
			globs := e.Strings()
			if len(globs) == 0 {
				return false
			}
			pkg.Configs.Copilot = &canonical.CopilotConfig{ApplyTo: strings.Join(globs, ",")}
		case "description":
			meta.Description = e.String()
		default:
			return false
		}
		return true
	},
}

func (*Codec) Decode(raw []byte, hints platform.Hints) (*canonical.Package, []string) {
	return decoder.Decode(raw, hints)
}

// Encode renders an instructions file. applyTo is required and every glob
// in it must be valid.
func (c *Codec) Encode(pkg *canonical.Package, opts platform.Options) (*platform.Rendering, error) {
	meta, err := platform.CheckEncodable(pkg)
	if err != nil {
		return nil, err
	}
	configured := ""
	if pkg.Configs.Copilot != nil {
		configured = pkg.Configs.Copilot.ApplyTo
	}
	applyTo, err := platform.Require(format.Copilot, FieldApplyTo, opts.ApplyTo, configured)
	if err != nil {
		return nil, err
	}
	globs := platform.SplitList(applyTo)
	if len(globs) == 0 {
		return nil, &errors.InvalidOptionError{
			Format: format.Copilot.String(),
			Field:  FieldApplyTo,
			Value:  applyTo,
			Reason: "no glob patterns",
		}
	}
	if err := platform.ValidateGlobs(format.Copilot, FieldApplyTo, globs); err != nil {
		return nil, err
	}

	m := matter{ApplyTo: strings.Join(globs, ","), Description: meta.Description}
	body := platform.RenderBody(pkg, format.Copilot, c.Capabilities())
	keys, err := frontmatter.Keys(m)
	if err != nil {
		return nil, errors.Wrap(err, "formatting copilot instructions")
	}
	data, err := frontmatter.Format(m, platform.RestoredFrontmatter(pkg, format.Copilot, keys...), body)
	if err != nil {
		return nil, errors.Wrap(err, "formatting copilot instructions")
	}
	return &platform.Rendering{Format: format.Copilot, Content: string(data)}, nil
}
