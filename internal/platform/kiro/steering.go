package kiro

import (
	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/pkg/frontmatter"
)

// Option names as Kiro spells them.
const (
	FieldInclusion        = "inclusion"
	FieldFileMatchPattern = "fileMatchPattern"
)

// SteeringCodec converts steering documents.
type SteeringCodec struct{}

// NewSteering returns the steering codec.
func NewSteering() *SteeringCodec {
	return &SteeringCodec{}
}

func (*SteeringCodec) Format() format.Format { return format.Kiro }

func (*SteeringCodec) Capabilities() platform.Capabilities {
	return platform.MarkdownCapabilities(FieldInclusion)
}

type steeringMatter struct {
	Inclusion        string `yaml:"inclusion"`
	FileMatchPattern string `yaml:"fileMatchPattern,omitempty"`
	Domain           string `yaml:"domain,omitempty"`
	Description      string `yaml:"description,omitempty"`
}

func validInclusion(s string) bool {
	switch s {
	case canonical.InclusionAlways, canonical.InclusionFileMatch, canonical.InclusionManual:
		return true
	}
	return false
}

func steeringConfig(pkg *canonical.Package) *canonical.KiroConfig {
	if pkg.Configs.Kiro == nil {
		pkg.Configs.Kiro = &canonical.KiroConfig{}
	}
	return pkg.Configs.Kiro
}

var steeringDecoder = platform.MarkdownDecoder{
	Format:  format.Kiro,
	Subtype: canonical.SubtypeRule,
	Field: func(e frontmatter.Entry, pkg *canonical.Package, meta *canonical.MetadataSection) bool {
		switch e.Key {
		case "inclusion":
			if !validInclusion(e.String()) {
				return false
			}
			steeringConfig(pkg).Inclusion = e.String()
		case "fileMatchPattern":
			steeringConfig(pkg).FileMatchPattern = e.String()
		case "domain":
			steeringConfig(pkg).Domain = e.String()
		case "description":
			meta.Description = e.String()
		default:
			return false
		}
		return true
	},
}

func (*SteeringCodec) Decode(raw []byte, hints platform.Hints) (*canonical.Package, []string) {
	return steeringDecoder.Decode(raw, hints)
}

// Encode renders a steering document. Inclusion is required, and a
// fileMatch inclusion also requires fileMatchPattern.
func (c *SteeringCodec) Encode(pkg *canonical.Package, opts platform.Options) (*platform.Rendering, error) {
	meta, err := platform.CheckEncodable(pkg)
	if err != nil {
		return nil, err
	}

	var cfg canonical.KiroConfig
	if pkg.Configs.Kiro != nil {
		cfg = *pkg.Configs.Kiro
	}
	inclusion, err := platform.Require(format.Kiro, FieldInclusion, opts.Inclusion, cfg.Inclusion)
	if err != nil {
		return nil, err
	}
	if !validInclusion(inclusion) {
		return nil, &errors.InvalidOptionError{
			Format: format.Kiro.String(),
			Field:  FieldInclusion,
			Value:  inclusion,
			Reason: "must be always, fileMatch or manual",
		}
	}

	m := steeringMatter{
		Inclusion:   inclusion,
		Domain:      firstNonEmpty(opts.Domain, cfg.Domain),
		Description: meta.Description,
	}
	if inclusion == canonical.InclusionFileMatch {
		pattern := firstNonEmpty(opts.FileMatchPattern, cfg.FileMatchPattern)
		if pattern == "" {
			return nil, &errors.MissingOptionError{
				Format: format.Kiro.String(),
				Field:  FieldFileMatchPattern,
				Reason: "required when inclusion is fileMatch",
			}
		}
		if err := platform.ValidateGlobs(format.Kiro, FieldFileMatchPattern, []string{pattern}); err != nil {
			return nil, err
		}
		m.FileMatchPattern = pattern
	}

	body := platform.RenderBody(pkg, format.Kiro, c.Capabilities())
	keys, err := frontmatter.Keys(m)
	if err != nil {
		return nil, errors.Wrap(err, "formatting steering document")
	}
	data, err := frontmatter.Format(m, platform.RestoredFrontmatter(pkg, format.Kiro, keys...), body)
	if err != nil {
		return nil, errors.Wrap(err, "formatting steering document")
	}
	return &platform.Rendering{Format: format.Kiro, Content: string(data)}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
