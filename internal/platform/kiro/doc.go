// Package kiro implements the two Kiro dialects: steering documents
// (markdown with inclusion frontmatter) and agent definitions (JSON).
//
// Agent definitions embed their instructions in a single "prompt" string,
// so rules are flattened to prose there. MCP server entries decode to
// executable tools and are never written back out.
package kiro
