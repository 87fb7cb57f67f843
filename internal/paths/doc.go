// Package paths resolves canon's own directories and the conventional
// on-disk locations of each dialect's artifacts.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. Configuration lives in <ConfigHome>/canon and the
// package store in <DataHome>/canon.
//
// # Artifact Layouts
//
//	| Format       | Directory              | File                      |
//	|--------------|------------------------|---------------------------|
//	| cursor       | .cursor/rules/         | <name>.mdc                |
//	| claude-skill | .claude/skills/<name>/ | SKILL.md                  |
//	| claude-agent | .claude/agents/        | <name>.md                 |
//	| kiro         | .kiro/steering/        | <name>.md                 |
//	| kiro-agent   | .kiro/agents/          | <name>.json               |
//	| copilot      | .github/instructions/  | <name>.instructions.md    |
//	| gemini       | .gemini/commands/      | <name>.toml               |
//	| generic      | (project root)         | <name>.md                 |
package paths
