// Package format defines the closed set of assistant dialects canon can
// decode from and encode to.
package format

import (
	"sort"
	"strings"

	"github.com/thoreinstein/canon/internal/errors"
)

// Format identifies a dialect. The zero value is not a valid format.
type Format string

// Supported dialects.
const (
	Cursor      Format = "cursor"
	ClaudeSkill Format = "claude-skill"
	ClaudeAgent Format = "claude-agent"
	Kiro        Format = "kiro"
	KiroAgent   Format = "kiro-agent"
	Copilot     Format = "copilot"
	Gemini      Format = "gemini"
	Generic     Format = "generic"
)

// ErrUnknownFormat is returned by Parse for names outside the enumeration.
var ErrUnknownFormat = errors.New("unknown format")

var all = []Format{Cursor, ClaudeSkill, ClaudeAgent, Kiro, KiroAgent, Copilot, Gemini, Generic}

// aliases accepts the names people actually type.
var aliases = map[string]Format{
	"mdc":                  Cursor,
	"cursor-rule":          Cursor,
	"skill":                ClaudeSkill,
	"claude":               ClaudeSkill,
	"agent":                ClaudeAgent,
	"kiro-steering":        Kiro,
	"steering":             Kiro,
	"copilot-instructions": Copilot,
	"gemini-command":       Gemini,
	"markdown":             Generic,
	"md":                   Generic,
}

type info struct {
	display   string
	extension string
}

var infos = map[Format]info{
	Cursor:      {"Cursor rule", ".mdc"},
	ClaudeSkill: {"Claude skill", ".md"},
	ClaudeAgent: {"Claude agent", ".md"},
	Kiro:        {"Kiro steering", ".md"},
	KiroAgent:   {"Kiro agent", ".json"},
	Copilot:     {"Copilot instructions", ".instructions.md"},
	Gemini:      {"Gemini command", ".toml"},
	Generic:     {"Markdown", ".md"},
}

// All returns every supported format in declaration order.
func All() []Format {
	out := make([]Format, len(all))
	copy(out, all)
	return out
}

// Names returns the sorted canonical names of all formats.
func Names() []string {
	names := make([]string, len(all))
	for i, f := range all {
		names[i] = string(f)
	}
	sort.Strings(names)
	return names
}

// Parse resolves a user-supplied name or alias to a Format.
func Parse(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if f := Format(name); f.Valid() {
		return f, nil
	}
	if f, ok := aliases[name]; ok {
		return f, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(ErrUnknownFormat, "%q", s),
		"supported formats: "+strings.Join(Names(), ", "),
	)
}

// Valid reports whether f is one of the supported dialects.
func (f Format) Valid() bool {
	_, ok := infos[f]
	return ok
}

func (f Format) String() string { return string(f) }

// DisplayName returns a human-readable label.
func (f Format) DisplayName() string {
	if i, ok := infos[f]; ok {
		return i.display
	}
	return string(f)
}

// Extension returns the file extension conventionally used by the dialect.
func (f Format) Extension() string {
	return infos[f].extension
}

// Markdown reports whether the dialect is markdown-bodied.
func (f Format) Markdown() bool {
	switch f {
	case KiroAgent, Gemini:
		return false
	}
	return f.Valid()
}

// Detect guesses a format from a file path. It returns false when the path
// carries no recognizable convention.
func Detect(path string) (Format, bool) {
	p := strings.ReplaceAll(strings.ToLower(path), "\\", "/")
	switch {
	case strings.HasSuffix(p, ".mdc"):
		return Cursor, true
	case strings.HasSuffix(p, ".instructions.md"):
		return Copilot, true
	case strings.HasSuffix(p, "/skill.md") || p == "skill.md":
		return ClaudeSkill, true
	case strings.Contains(p, ".claude/agents/"):
		return ClaudeAgent, true
	case strings.Contains(p, ".kiro/steering/"):
		return Kiro, true
	case strings.Contains(p, ".kiro/agents/") && strings.HasSuffix(p, ".json"):
		return KiroAgent, true
	case strings.HasSuffix(p, ".toml"):
		return Gemini, true
	case strings.HasSuffix(p, ".md"):
		return Generic, true
	}
	return "", false
}
