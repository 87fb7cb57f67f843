package claude

import (
	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/pkg/frontmatter"
)

// AgentCodec converts Claude subagent definitions.
type AgentCodec struct{}

// NewAgent returns the subagent codec.
func NewAgent() *AgentCodec {
	return &AgentCodec{}
}

func (*AgentCodec) Format() format.Format { return format.ClaudeAgent }

func (*AgentCodec) Capabilities() platform.Capabilities {
	caps := platform.MarkdownCapabilities("name")
	caps.Sections[canonical.KindTools] = platform.Native
	caps.Hints = []canonical.Hint{canonical.HintModel}
	return caps
}

var agentDecoder = platform.MarkdownDecoder{
	Format:  format.ClaudeAgent,
	Subtype: canonical.SubtypeAgent,
	Field: func(e frontmatter.Entry, pkg *canonical.Package, meta *canonical.MetadataSection) bool {
		switch e.Key {
		case "name":
			decodeName(e, pkg)
		case "description":
			meta.Description = e.String()
		case "model":
			meta.Model = e.String()
		case "tools":
			return decodeTools(e, pkg)
		default:
			return false
		}
		return true
	},
}

func (*AgentCodec) Decode(raw []byte, hints platform.Hints) (*canonical.Package, []string) {
	pkg, warnings := agentDecoder.Decode(raw, hints)
	if !frontmatter.Split(raw).Present {
		warnings = append([]string{WarnNoFrontmatter}, warnings...)
	}
	return pkg, warnings
}

// Encode renders a subagent file with name, description, tools and model.
func (c *AgentCodec) Encode(pkg *canonical.Package, opts platform.Options) (*platform.Rendering, error) {
	meta, err := platform.CheckEncodable(pkg)
	if err != nil {
		return nil, err
	}
	name, err := platform.Require(format.ClaudeAgent, "name", opts.Name, configuredName(pkg))
	if err != nil {
		return nil, err
	}
	if err := ValidateName(format.ClaudeAgent, name); err != nil {
		return nil, err
	}

	tools := allowedTools(pkg, platform.ToolNames(pkg))
	matter := agentMatter{
		Name:        name,
		Description: meta.Description,
		Tools:       tools.Commas(),
		Model:       meta.Model,
	}

	body := platform.RenderBody(pkg, format.ClaudeAgent, c.Capabilities(), canonical.KindTools)
	keys, err := frontmatter.Keys(matter)
	if err != nil {
		return nil, errors.Wrap(err, "formatting agent")
	}
	data, err := frontmatter.Format(matter, platform.RestoredFrontmatter(pkg, format.ClaudeAgent, keys...), body)
	if err != nil {
		return nil, errors.Wrap(err, "formatting agent")
	}
	return &platform.Rendering{
		Format:   format.ClaudeAgent,
		Content:  string(data),
		Warnings: toolWarnings(tools),
	}, nil
}
