package kiro

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/markdown"
	"github.com/thoreinstein/canon/internal/platform"
)

// AgentCodec converts Kiro agent definitions.
type AgentCodec struct{}

// NewAgent returns the agent definition codec.
func NewAgent() *AgentCodec {
	return &AgentCodec{}
}

func (*AgentCodec) Format() format.Format { return format.KiroAgent }

func (*AgentCodec) Capabilities() platform.Capabilities {
	return platform.Capabilities{
		Sections: map[canonical.Kind]platform.Support{
			canonical.KindMetadata:     platform.Native,
			canonical.KindInstructions: platform.Native,
			canonical.KindRules:        platform.Native,
			canonical.KindExamples:     platform.Native,
			canonical.KindTools:        platform.Native,
			canonical.KindPersona:      platform.Approximate,
			canonical.KindContext:      platform.Native,
			canonical.KindCustom:       platform.Native,
		},
		Hints:    []canonical.Hint{canonical.HintModel},
		Required: []string{"name"},
	}
}

// MCPServer is one entry of an agent's mcpServers object.
type MCPServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// executableKeys are agent fields that define commands to run. A
// malformed mcpServers value lands here too.
var executableKeys = []string{"hooks", "mcpServers"}

// Decode maps an agent definition. Invalid JSON is kept verbatim; fields of
// the wrong type and unknown fields are kept in a custom section.
func (*AgentCodec) Decode(raw []byte, hints platform.Hints) (*canonical.Package, []string) {
	pkg := platform.NewPackage(format.KiroAgent, canonical.SubtypeAgent, hints)
	meta := pkg.EnsureMetadata()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		content := string(raw)
		pkg.Sections = append(pkg.Sections, &canonical.CustomSection{
			Dialect: format.KiroAgent,
			Content: content,
			Slot:    canonical.SlotBody,
		})
		platform.FinishPackage(pkg)
		return pkg, []string{canonical.GapWarning(utf8.RuneCountInString(content))}
	}

	var warnings []string
	var body markdown.Body
	unknown := map[string]json.RawMessage{}
	cfg := &canonical.AgentConfig{}

	for _, key := range slices.Sorted(maps.Keys(fields)) {
		value := fields[key]
		ok := true
		switch key {
		case "name":
			ok = json.Unmarshal(value, &cfg.Name) == nil
		case "description":
			ok = json.Unmarshal(value, &meta.Description) == nil
		case "model":
			ok = json.Unmarshal(value, &meta.Model) == nil
		case "allowedTools":
			ok = json.Unmarshal(value, &cfg.AllowedTools) == nil
		case "resources":
			ok = json.Unmarshal(value, &cfg.Resources) == nil
		case "prompt":
			var prompt string
			if ok = json.Unmarshal(value, &prompt) == nil; ok {
				body = markdown.Parse(prompt, format.KiroAgent)
			}
		case "tools", "mcpServers":
			// Decoded below so sections keep a stable order.
		default:
			ok = false
		}
		if !ok {
			unknown[key] = value
		}
	}

	if section, ok := decodeTools(fields["tools"]); ok {
		if section != nil {
			pkg.Sections = append(pkg.Sections, section)
		}
	} else {
		unknown["tools"] = fields["tools"]
	}
	if section, ok := decodeServers(fields["mcpServers"]); ok {
		if section != nil {
			pkg.Sections = append(pkg.Sections, section)
		}
	} else {
		unknown["mcpServers"] = fields["mcpServers"]
	}

	executable := map[string]json.RawMessage{}
	for _, key := range executableKeys {
		if v, ok := unknown[key]; ok {
			executable[key] = v
			delete(unknown, key)
		}
	}
	groups := []struct {
		fields     map[string]json.RawMessage
		executable bool
	}{{unknown, false}, {executable, true}}
	for _, g := range groups {
		if len(g.fields) == 0 {
			continue
		}
		data, err := json.MarshalIndent(g.fields, "", "  ")
		if err != nil {
			continue
		}
		pkg.Sections = append(pkg.Sections, &canonical.CustomSection{
			Dialect:    format.KiroAgent,
			Title:      "agent fields",
			Content:    string(data),
			Slot:       canonical.SlotFrontmatter,
			Executable: g.executable,
		})
		warnings = append(warnings, canonical.GapWarning(utf8.RuneCountInString(string(data))))
	}

	meta.Title = body.Title
	pkg.Sections = append(pkg.Sections, body.Sections...)
	warnings = append(warnings, body.Warnings...)

	if cfg.Name != "" || len(cfg.AllowedTools) > 0 || len(cfg.Resources) > 0 {
		pkg.Configs.Agent = cfg
		if pkg.Name == "" {
			pkg.Name = cfg.Name
		}
	}
	platform.FinishPackage(pkg)
	return pkg, warnings
}

// decodeTools reads the tools array. A nil section with ok=true means the
// field was absent or empty.
func decodeTools(raw json.RawMessage) (*canonical.ToolsSection, bool) {
	if raw == nil {
		return nil, true
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, false
	}
	if len(names) == 0 {
		return nil, true
	}
	section := &canonical.ToolsSection{Title: "Tools"}
	for _, n := range names {
		section.Tools = append(section.Tools, canonical.Tool{Name: n})
	}
	return section, true
}

// decodeServers turns mcpServers into executable tools, sorted by name.
func decodeServers(raw json.RawMessage) (*canonical.ToolsSection, bool) {
	if raw == nil {
		return nil, true
	}
	var servers map[string]MCPServer
	if err := json.Unmarshal(raw, &servers); err != nil {
		return nil, false
	}
	if len(servers) == 0 {
		return nil, true
	}
	section := &canonical.ToolsSection{Title: "MCP servers"}
	for _, name := range slices.Sorted(maps.Keys(servers)) {
		s := servers[name]
		section.Tools = append(section.Tools, canonical.Tool{
			Name:    name,
			Command: s.Command,
			Args:    s.Args,
		})
	}
	return section, true
}

// field is one key of the encoded object, kept in output order.
type field struct {
	key   string
	value any
}

// Encode renders an agent definition. The name is required; the markdown
// body, rules lists included, becomes the prompt.
func (c *AgentCodec) Encode(pkg *canonical.Package, opts platform.Options) (*platform.Rendering, error) {
	meta, err := platform.CheckEncodable(pkg)
	if err != nil {
		return nil, err
	}

	var cfg canonical.AgentConfig
	if pkg.Configs.Agent != nil {
		cfg = *pkg.Configs.Agent
	}
	name, err := platform.Require(format.KiroAgent, "name", opts.Name, cfg.Name)
	if err != nil {
		return nil, err
	}

	prompt := strings.TrimRight(platform.RenderBody(pkg, format.KiroAgent, c.Capabilities(), canonical.KindTools), "\n")
	fields := []field{
		{"name", name},
		{"description", meta.Description},
		{"prompt", prompt},
	}
	if tools := platform.ToolNames(pkg); len(tools) > 0 {
		fields = append(fields, field{"tools", tools})
	}
	if len(cfg.AllowedTools) > 0 {
		fields = append(fields, field{"allowedTools", cfg.AllowedTools})
	}
	if len(cfg.Resources) > 0 {
		fields = append(fields, field{"resources", cfg.Resources})
	}
	if meta.Model != "" {
		fields = append(fields, field{"model", meta.Model})
	}

	extra, err := restoredFields(pkg)
	if err != nil {
		return nil, err
	}
	for _, key := range slices.Sorted(maps.Keys(extra)) {
		if slices.Contains(executableKeys, key) ||
			slices.ContainsFunc(fields, func(f field) bool { return f.key == key }) {
			continue
		}
		fields = append(fields, field{key, extra[key]})
	}

	data, err := writeObject(fields)
	if err != nil {
		return nil, errors.Wrap(err, "encoding agent definition")
	}
	return &platform.Rendering{Format: format.KiroAgent, Content: string(data)}, nil
}

// restoredFields merges the agent fields kept from a previous decode.
func restoredFields(pkg *canonical.Package) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	for _, s := range pkg.Sections {
		cs, ok := s.(*canonical.CustomSection)
		if !ok || cs.Dialect != format.KiroAgent || cs.Slot != canonical.SlotFrontmatter || cs.Executable {
			continue
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal([]byte(cs.Content), &m); err != nil {
			return nil, errors.Wrap(err, "restoring agent fields")
		}
		maps.Copy(out, m)
	}
	return out, nil
}

// writeObject marshals fields as one indented JSON object in order.
func writeObject(fields []field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
