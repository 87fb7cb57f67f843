package claude

import (
	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/pkg/frontmatter"
)

// SkillCodec converts SKILL.md files.
type SkillCodec struct{}

// NewSkill returns the skill codec.
func NewSkill() *SkillCodec {
	return &SkillCodec{}
}

func (*SkillCodec) Format() format.Format { return format.ClaudeSkill }

// Capabilities: tools are carried as allowed-tools names; license and
// argument hints have frontmatter keys.
func (*SkillCodec) Capabilities() platform.Capabilities {
	caps := platform.MarkdownCapabilities("name")
	caps.Sections[canonical.KindTools] = platform.Native
	caps.Hints = []canonical.Hint{canonical.HintLicense, canonical.HintArgumentHint}
	return caps
}

var skillDecoder = platform.MarkdownDecoder{
	Format:  format.ClaudeSkill,
	Subtype: canonical.SubtypeSkill,
	Field:   skillField,
}

func skillField(e frontmatter.Entry, pkg *canonical.Package, meta *canonical.MetadataSection) bool {
	switch e.Key {
	case "name":
		decodeName(e, pkg)
	case "description":
		meta.Description = e.String()
	case "license":
		meta.License = e.String()
	case "argument-hint":
		meta.ArgumentHint = e.String()
	case "allowed-tools":
		return decodeTools(e, pkg)
	case "metadata":
		return decodeSkillMetadata(e, pkg, meta)
	default:
		return false
	}
	return true
}

// decodeSkillMetadata consumes the metadata map only when every key has a
// canonical home, so nothing is split between two places.
func decodeSkillMetadata(e frontmatter.Entry, pkg *canonical.Package, meta *canonical.MetadataSection) bool {
	var m map[string]string
	if err := e.Value.Decode(&m); err != nil {
		return false
	}
	for k := range m {
		if k != "author" && k != "version" {
			return false
		}
	}
	meta.Author = m["author"]
	pkg.Version = m["version"]
	return true
}

// Decode maps a SKILL.md file. A missing or malformed frontmatter block is
// reported as a warning, never an error.
func (*SkillCodec) Decode(raw []byte, hints platform.Hints) (*canonical.Package, []string) {
	pkg, warnings := skillDecoder.Decode(raw, hints)
	if !frontmatter.Split(raw).Present {
		warnings = append([]string{WarnNoFrontmatter}, warnings...)
	}
	return pkg, warnings
}

// Encode renders a SKILL.md file. The name is required and must be a valid
// skill name.
func (c *SkillCodec) Encode(pkg *canonical.Package, opts platform.Options) (*platform.Rendering, error) {
	meta, err := platform.CheckEncodable(pkg)
	if err != nil {
		return nil, err
	}
	name, err := platform.Require(format.ClaudeSkill, "name", opts.Name, configuredName(pkg))
	if err != nil {
		return nil, err
	}
	if err := ValidateName(format.ClaudeSkill, name); err != nil {
		return nil, err
	}

	tools := allowedTools(pkg, platform.ToolNames(pkg))
	var warnings []string
	if meta.Description == "" {
		warnings = append(warnings, "skill has no description; Claude uses it to decide when to load the skill")
	}
	warnings = append(warnings, toolWarnings(tools)...)

	matter := skillMatter{
		Name:         name,
		Description:  meta.Description,
		License:      meta.License,
		ArgumentHint: meta.ArgumentHint,
		AllowedTools: tools.String(),
	}
	if meta.Author != "" || pkg.Version != "" {
		matter.Metadata = map[string]string{}
		if meta.Author != "" {
			matter.Metadata["author"] = meta.Author
		}
		if pkg.Version != "" {
			matter.Metadata["version"] = pkg.Version
		}
	}

	body := platform.RenderBody(pkg, format.ClaudeSkill, c.Capabilities(), canonical.KindTools)
	keys, err := frontmatter.Keys(matter)
	if err != nil {
		return nil, errors.Wrap(err, "formatting skill")
	}
	data, err := frontmatter.Format(matter, platform.RestoredFrontmatter(pkg, format.ClaudeSkill, keys...), body)
	if err != nil {
		return nil, errors.Wrap(err, "formatting skill")
	}
	return &platform.Rendering{Format: format.ClaudeSkill, Content: string(data), Warnings: warnings}, nil
}
