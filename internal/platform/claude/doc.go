// Package claude implements the two Claude Code dialects: skills (SKILL.md
// with strict frontmatter) and subagents (markdown with name, tools and
// model frontmatter).
//
// Both dialects grant tools by name only. Tool permissions keep Claude's
// scoped syntax verbatim, e.g. "Bash(git:*)".
package claude
