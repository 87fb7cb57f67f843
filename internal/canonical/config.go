package canonical

import "slices"

// Configs holds optional per-dialect configuration. Blocks are additive:
// they inform how an encoder renders the sections and never replace them.
type Configs struct {
	Cursor  *CursorConfig  `json:"cursor,omitempty"`
	Kiro    *KiroConfig    `json:"kiro,omitempty"`
	Copilot *CopilotConfig `json:"copilot,omitempty"`
	Claude  *ClaudeConfig  `json:"claude,omitempty"`
	Agent   *AgentConfig   `json:"agent,omitempty"`
}

// CursorConfig scopes a cursor rule.
type CursorConfig struct {
	Globs       []string `json:"globs,omitempty"`
	AlwaysApply *bool    `json:"alwaysApply,omitempty"`
}

// Kiro inclusion modes.
const (
	InclusionAlways    = "always"
	InclusionFileMatch = "fileMatch"
	InclusionManual    = "manual"
)

// KiroConfig scopes a kiro steering document.
type KiroConfig struct {
	Inclusion        string `json:"inclusion,omitempty"`
	FileMatchPattern string `json:"fileMatchPattern,omitempty"`
	Domain           string `json:"domain,omitempty"`
}

// CopilotConfig scopes a path-specific instructions file.
type CopilotConfig struct {
	ApplyTo string `json:"applyTo,omitempty"`
}

// ClaudeConfig is shared by claude skills and agents.
type ClaudeConfig struct {
	Name         string   `json:"name,omitempty"`
	AllowedTools []string `json:"allowedTools,omitempty"`
}

// AgentConfig describes a kiro agent definition.
type AgentConfig struct {
	Name         string   `json:"name,omitempty"`
	AllowedTools []string `json:"allowedTools,omitempty"`
	Resources    []string `json:"resources,omitempty"`
}

func (c Configs) clone() Configs {
	out := Configs{}
	if c.Cursor != nil {
		v := *c.Cursor
		v.Globs = slices.Clone(c.Cursor.Globs)
		if c.Cursor.AlwaysApply != nil {
			b := *c.Cursor.AlwaysApply
			v.AlwaysApply = &b
		}
		out.Cursor = &v
	}
	if c.Kiro != nil {
		v := *c.Kiro
		out.Kiro = &v
	}
	if c.Copilot != nil {
		v := *c.Copilot
		out.Copilot = &v
	}
	if c.Claude != nil {
		v := *c.Claude
		v.AllowedTools = slices.Clone(c.Claude.AllowedTools)
		out.Claude = &v
	}
	if c.Agent != nil {
		v := *c.Agent
		v.AllowedTools = slices.Clone(c.Agent.AllowedTools)
		v.Resources = slices.Clone(c.Agent.Resources)
		out.Agent = &v
	}
	return out
}

// Bool returns a pointer to b, for optional flags.
func Bool(b bool) *bool { return &b }
