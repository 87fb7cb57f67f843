package claude

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/canon/internal/errors"
)

// ToolList is a list of allowed tools. It unmarshals from a list of
// strings or from one string delimited by spaces or commas.
type ToolList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *ToolList) UnmarshalYAML(value *yaml.Node) error {
	var multi []string
	if err := value.Decode(&multi); err == nil {
		*t = nil
		for _, m := range multi {
			if m = strings.TrimSpace(m); m != "" {
				*t = append(*t, m)
			}
		}
		return nil
	}

	var single string
	if err := value.Decode(&single); err == nil {
		*t = splitTools(single)
		return nil
	}

	return errors.Newf("tools must be a string or list of strings, got %s", value.Tag)
}

// splitTools splits a tool string on commas, or on whitespace when there
// are none. Separators inside a permission scope are kept.
func splitTools(s string) ToolList {
	sep := func(r rune) bool { return r == ' ' || r == '\t' || r == ',' }
	if strings.Contains(s, ",") {
		sep = func(r rune) bool { return r == ',' }
	}

	var out ToolList
	var cur strings.Builder
	depth := 0
	flush := func() {
		if p := strings.TrimSpace(cur.String()); p != "" {
			out = append(out, p)
		}
		cur.Reset()
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0 && sep(r):
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return out
}

// String returns the space-delimited form used by skills.
func (t ToolList) String() string {
	return strings.Join(t, " ")
}

// Commas returns the comma-delimited form used by agents.
func (t ToolList) Commas() string {
	return strings.Join(t, ", ")
}

// skillMatter is the SKILL.md frontmatter.
type skillMatter struct {
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	License      string            `yaml:"license,omitempty"`
	ArgumentHint string            `yaml:"argument-hint,omitempty"`
	Metadata     map[string]string `yaml:"metadata,omitempty"`
	AllowedTools string            `yaml:"allowed-tools,omitempty"`
}

// agentMatter is the subagent frontmatter.
type agentMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Tools       string `yaml:"tools,omitempty"`
	Model       string `yaml:"model,omitempty"`
}
