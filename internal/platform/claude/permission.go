package claude

import (
	"regexp"
)

// Permission is a parsed tool permission such as "Bash(git:*)".
type Permission struct {
	// Name is the tool name (e.g., "Read", "Bash").
	Name string

	// Scope is the optional text between parentheses.
	Scope string
}

// String returns the permission in its canonical string form.
func (p Permission) String() string {
	if p.Scope == "" {
		return p.Name
	}
	return p.Name + "(" + p.Scope + ")"
}

// permissionPattern matches ToolName or ToolName(scope). Tool names are
// PascalCase.
var permissionPattern = regexp.MustCompile(`^([A-Z][a-zA-Z0-9]*)(?:\(([^)]+)\))?$`)

// mcpToolPattern matches tools exposed by MCP servers, e.g.
// "mcp__github__create_issue".
var mcpToolPattern = regexp.MustCompile(`^mcp__[A-Za-z0-9_-]+$`)

// ParsePermission parses one allowed-tools token. It reports false when
// the token is not Claude permission syntax.
func ParsePermission(token string) (Permission, bool) {
	if mcpToolPattern.MatchString(token) {
		return Permission{Name: token}, true
	}
	m := permissionPattern.FindStringSubmatch(token)
	if m == nil {
		return Permission{}, false
	}
	return Permission{Name: m[1], Scope: m[2]}, true
}

// foreignTools returns the names that are not Claude tool permissions.
func foreignTools(names []string) []string {
	var out []string
	for _, n := range names {
		if _, ok := ParsePermission(n); !ok {
			out = append(out, n)
		}
	}
	return out
}
