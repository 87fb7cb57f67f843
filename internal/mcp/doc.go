// Package mcp exposes canon over the Model Context Protocol.
//
// The server speaks MCP on stdio and offers two tools:
//
//   - convert: decode an artifact from one dialect and encode it as another,
//     returning the rendered content, warnings and the fidelity score.
//   - score_package: decode an artifact and rate it for discovery ranking
//     from its content plus caller-supplied metadata.
//
// Tool failures are reported as results with IsError set and a JSON body of
// the form {"error": {"code": ..., "message": ...}} rather than as protocol
// errors, so clients can show them to the user.
package mcp
