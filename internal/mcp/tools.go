package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thoreinstein/canon/internal/format"
)

var convertToolDef = mcp.NewTool("convert",
	mcp.WithDescription("Convert an AI assistant instruction artifact between dialects. "+
		"Returns the rendered content, warnings for anything lost, and a 0-100 fidelity score."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("content", mcp.Required(), mcp.Description("Raw artifact text")),
	mcp.WithString("from", mcp.Required(), mcp.Description("Source dialect"), mcp.Enum(format.Names()...)),
	mcp.WithString("to", mcp.Required(), mcp.Description("Target dialect"), mcp.Enum(format.Names()...)),
	mcp.WithString("name", mcp.Description("Artifact name for claude-skill, claude-agent and kiro-agent")),
	mcp.WithArray("globs", mcp.Description("Cursor rule globs"), mcp.WithStringItems()),
	mcp.WithBoolean("always_apply", mcp.Description("Cursor alwaysApply")),
	mcp.WithString("inclusion", mcp.Description("Kiro steering inclusion mode"),
		mcp.Enum("always", "fileMatch", "manual")),
	mcp.WithString("file_match_pattern", mcp.Description("Kiro fileMatch glob")),
	mcp.WithString("domain", mcp.Description("Kiro steering domain")),
	mcp.WithString("apply_to", mcp.Description("Copilot applyTo glob list, comma separated")),
	mcp.WithArray("drop", mcp.Description("Section kinds to remove before encoding"), mcp.WithStringItems()),
)

var scoreToolDef = mcp.NewTool("score_package",
	mcp.WithDescription("Rate an instruction artifact for discovery ranking on a 0-5 scale "+
		"from its content quality and the supplied author and usage metadata."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("content", mcp.Required(), mcp.Description("Raw artifact text")),
	mcp.WithString("format", mcp.Required(), mcp.Description("Dialect of content"), mcp.Enum(format.Names()...)),
	mcp.WithBoolean("verified", mcp.Description("Author identity is verified")),
	mcp.WithBoolean("official", mcp.Description("Published by the tool vendor")),
	mcp.WithNumber("downloads", mcp.Description("Total downloads")),
	mcp.WithNumber("rating", mcp.Description("Mean user rating, 0 to 5")),
	mcp.WithNumber("rating_count", mcp.Description("Number of ratings behind rating")),
	mcp.WithString("updated_at", mcp.Description("Last update, RFC 3339")),
)
