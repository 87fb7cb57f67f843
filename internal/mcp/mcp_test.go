package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/convert"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/platform/builtin"
)

const cursorRule = `---
description: Go error handling
globs: "**/*.go"
---
# Go errors

## Rules

- Wrap errors with context
- Never ignore returned errors

## Tools

- Read: read source files
`

func testHandlers(t *testing.T) *Handlers {
	t.Helper()
	logger := logging.ForTest(t)
	return NewHandlers(convert.New(builtin.New(), convert.WithLogger(logger)), nil, logger)
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func errorCode(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	return payload.Error.Code
}

func TestHandleConvert(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError string
	}{
		{
			name: "cursor to kiro",
			args: map[string]any{"content": cursorRule, "from": "cursor", "to": "kiro", "inclusion": "always"},
		},
		{
			name: "alias accepted",
			args: map[string]any{"content": cursorRule, "from": "mdc", "to": "copilot", "apply_to": "**/*.go"},
		},
		{
			name:      "missing content",
			args:      map[string]any{"from": "cursor", "to": "kiro"},
			wantError: CodeInvalidRequest,
		},
		{
			name:      "missing target",
			args:      map[string]any{"content": cursorRule, "from": "cursor"},
			wantError: CodeInvalidRequest,
		},
		{
			name:      "missing required option",
			args:      map[string]any{"content": cursorRule, "from": "cursor", "to": "kiro"},
			wantError: CodeMissingOption,
		},
		{
			name:      "invalid option",
			args:      map[string]any{"content": cursorRule, "from": "cursor", "to": "kiro", "inclusion": "sometimes"},
			wantError: CodeInvalidOption,
		},
		{
			name:      "unknown dialect",
			args:      map[string]any{"content": cursorRule, "from": "cursor", "to": "vim"},
			wantError: CodeUnsupportedPair,
		},
		{
			name:      "unknown drop kind",
			args:      map[string]any{"content": cursorRule, "from": "cursor", "to": "generic", "drop": []any{"appendix"}},
			wantError: CodeInvalidRequest,
		},
		{
			name:      "wrong argument type",
			args:      map[string]any{"content": 42, "from": "cursor", "to": "generic"},
			wantError: CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleConvert(ctx, makeRequest(tt.args))
			require.NoError(t, err)

			if tt.wantError != "" {
				require.True(t, result.IsError, "expected error result")
				assert.Equal(t, tt.wantError, errorCode(t, result))
				return
			}
			require.False(t, result.IsError, resultText(t, result))
		})
	}
}

func TestHandleConvert_Payload(t *testing.T) {
	h := testHandlers(t)

	result, err := h.HandleConvert(context.Background(), makeRequest(map[string]any{
		"content":   cursorRule,
		"from":      "cursor",
		"to":        "kiro",
		"inclusion": "always",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out canonical.ConversionResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, "kiro", out.Format.String())
	assert.Equal(t, 75, out.QualityScore)
	assert.True(t, out.LossyConversion)
	assert.Contains(t, out.Content, "inclusion: always")
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "tools")
}

func TestHandleConvert_Drop(t *testing.T) {
	h := testHandlers(t)

	result, err := h.HandleConvert(context.Background(), makeRequest(map[string]any{
		"content":   cursorRule,
		"from":      "cursor",
		"to":        "kiro",
		"inclusion": "always",
		"drop":      []any{"tools"},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out canonical.ConversionResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, 100, out.QualityScore)
	assert.False(t, out.LossyConversion)
}

func TestHandleConvert_MissingOptionDetails(t *testing.T) {
	h := testHandlers(t)

	result, err := h.HandleConvert(context.Background(), makeRequest(map[string]any{
		"content": cursorRule, "from": "cursor", "to": "copilot",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)

	var payload struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.Equal(t, "copilot", payload.Error.Details["format"])
	assert.Equal(t, "applyTo", payload.Error.Details["field"])
}

func TestHandleScore(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError string
	}{
		{
			name: "minimal",
			args: map[string]any{"content": cursorRule, "format": "cursor"},
		},
		{
			name: "with metadata",
			args: map[string]any{
				"content":      cursorRule,
				"format":       "cursor",
				"verified":     true,
				"official":     true,
				"downloads":    1000,
				"rating":       4.5,
				"rating_count": 10,
				"updated_at":   "2024-01-01T00:00:00Z",
			},
		},
		{
			name:      "missing format",
			args:      map[string]any{"content": cursorRule},
			wantError: CodeInvalidRequest,
		},
		{
			name:      "bad timestamp",
			args:      map[string]any{"content": cursorRule, "format": "cursor", "updated_at": "yesterday"},
			wantError: CodeInvalidRequest,
		},
		{
			name:      "unknown format",
			args:      map[string]any{"content": cursorRule, "format": "vim"},
			wantError: CodeUnsupportedPair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleScore(ctx, makeRequest(tt.args))
			require.NoError(t, err)

			if tt.wantError != "" {
				require.True(t, result.IsError)
				assert.Equal(t, tt.wantError, errorCode(t, result))
				return
			}
			require.False(t, result.IsError, resultText(t, result))

			var out ScoreResponse
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
			assert.GreaterOrEqual(t, out.Score, 0.0)
			assert.LessOrEqual(t, out.Score, 5.0)
			assert.Equal(t, "heuristic", out.Breakdown.Evaluator)
		})
	}
}

func TestHandleScore_Credibility(t *testing.T) {
	h := testHandlers(t)

	result, err := h.HandleScore(context.Background(), makeRequest(map[string]any{
		"content": cursorRule, "format": "cursor", "verified": true, "official": true,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out ScoreResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.InDelta(t, 1.0, out.Breakdown.Credibility, 1e-9)
	assert.InDelta(t, 0.0, out.Breakdown.Recency, 1e-9)
}

func TestServer(t *testing.T) {
	assert.Equal(t, []string{"convert", "score_package"}, AllToolNames())
	assert.NotNil(t, NewServer(testHandlers(t), "test"))

	for name, entry := range toolRegistry {
		assert.Equal(t, name, entry.def.Name)
	}
}
