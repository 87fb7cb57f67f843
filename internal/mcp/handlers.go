package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/convert"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/internal/quality"
)

// Error codes carried in tool error results.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeMissingOption   = "MISSING_OPTION"
	CodeInvalidOption   = "INVALID_OPTION"
	CodeUnsupportedPair = "UNSUPPORTED_DIALECT_PAIR"
	CodeInternal        = "INTERNAL"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	converter *convert.Converter
	scorer    *quality.Scorer
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance. A nil scorer uses the
// heuristic evaluator.
func NewHandlers(c *convert.Converter, s *quality.Scorer, logger *slog.Logger) *Handlers {
	if s == nil {
		s = quality.NewScorer(nil)
	}
	return &Handlers{converter: c, scorer: s, logger: logging.WithComponent(logger, "mcp")}
}

// ConvertRequest represents the arguments for convert.
type ConvertRequest struct {
	Content          string   `json:"content"`
	From             string   `json:"from"`
	To               string   `json:"to"`
	Name             string   `json:"name,omitempty"`
	Globs            []string `json:"globs,omitempty"`
	AlwaysApply      *bool    `json:"always_apply,omitempty"`
	Inclusion        string   `json:"inclusion,omitempty"`
	FileMatchPattern string   `json:"file_match_pattern,omitempty"`
	Domain           string   `json:"domain,omitempty"`
	ApplyTo          string   `json:"apply_to,omitempty"`
	Drop             []string `json:"drop,omitempty"`
}

// ScoreRequest represents the arguments for score_package.
type ScoreRequest struct {
	Content     string  `json:"content"`
	Format      string  `json:"format"`
	Verified    bool    `json:"verified,omitempty"`
	Official    bool    `json:"official,omitempty"`
	Downloads   int64   `json:"downloads,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	RatingCount int     `json:"rating_count,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// ScoreResponse is the score_package result.
type ScoreResponse struct {
	Name      string            `json:"name"`
	Subtype   canonical.Subtype `json:"subtype"`
	Score     float64           `json:"score"`
	Breakdown quality.Breakdown `json:"breakdown"`
	Warnings  []string          `json:"warnings"`
}

// HandleConvert handles the convert tool call.
func (h *Handlers) HandleConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConvertRequest](req)
	if err != nil {
		return invalidRequest(err.Error()), nil
	}
	if input.Content == "" {
		return invalidRequest("content is required"), nil
	}
	if input.From == "" || input.To == "" {
		return invalidRequest("from and to are required"), nil
	}

	drop := make([]canonical.Kind, 0, len(input.Drop))
	for _, name := range input.Drop {
		k, ok := canonical.ParseKind(name)
		if !ok {
			return invalidRequest("unknown section kind " + name), nil
		}
		drop = append(drop, k)
	}

	res, err := h.converter.Run(convert.Request{
		Raw:  []byte(input.Content),
		From: parseFormat(input.From),
		To:   parseFormat(input.To),
		Options: platform.Options{
			Name:             input.Name,
			Globs:            input.Globs,
			AlwaysApply:      input.AlwaysApply,
			Inclusion:        input.Inclusion,
			FileMatchPattern: input.FileMatchPattern,
			Domain:           input.Domain,
			ApplyTo:          input.ApplyTo,
		},
		DropKinds: drop,
	})
	if err != nil {
		return h.errorResult(err), nil
	}

	return successResult(res.ConversionResult)
}

// HandleScore handles the score_package tool call.
func (h *Handlers) HandleScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ScoreRequest](req)
	if err != nil {
		return invalidRequest(err.Error()), nil
	}
	if input.Content == "" || input.Format == "" {
		return invalidRequest("content and format are required"), nil
	}

	var updated time.Time
	if input.UpdatedAt != "" {
		updated, err = time.Parse(time.RFC3339, input.UpdatedAt)
		if err != nil {
			return invalidRequest("updated_at must be RFC 3339"), nil
		}
	}

	pkg, warnings, err := h.converter.Decode([]byte(input.Content), parseFormat(input.Format), platform.Hints{})
	if err != nil {
		return h.errorResult(err), nil
	}

	b := h.scorer.Breakdown(ctx, quality.Snapshot{
		Package:     pkg,
		Verified:    input.Verified,
		Official:    input.Official,
		Downloads:   input.Downloads,
		Rating:      input.Rating,
		RatingCount: input.RatingCount,
		UpdatedAt:   updated,
	})

	return successResult(ScoreResponse{
		Name:      pkg.Name,
		Subtype:   pkg.Subtype,
		Score:     b.Total,
		Breakdown: b,
		Warnings:  warnings,
	})
}

// parseFormat accepts aliases. Unknown names pass through unchanged so the
// converter reports them as an unsupported pair.
func parseFormat(s string) format.Format {
	if f, err := format.Parse(s); err == nil {
		return f
	}
	return format.Format(s)
}

// Result helpers

func invalidRequest(message string) *mcp.CallToolResult {
	return errorPayload(map[string]any{"code": CodeInvalidRequest, "message": message})
}

// errorResult maps conversion errors to coded results. Anything unexpected
// is logged and reported without detail.
func (h *Handlers) errorResult(err error) *mcp.CallToolResult {
	var (
		missing     *errors.MissingOptionError
		invalid     *errors.InvalidOptionError
		unsupported *errors.UnsupportedPairError
	)
	switch {
	case errors.As(err, &missing):
		return errorPayload(map[string]any{
			"code":    CodeMissingOption,
			"message": err.Error(),
			"details": map[string]any{"format": missing.Format, "field": missing.Field},
		})
	case errors.As(err, &invalid):
		return errorPayload(map[string]any{
			"code":    CodeInvalidOption,
			"message": err.Error(),
			"details": map[string]any{"format": invalid.Format, "field": invalid.Field, "value": invalid.Value},
		})
	case errors.As(err, &unsupported):
		return errorPayload(map[string]any{
			"code":    CodeUnsupportedPair,
			"message": err.Error(),
			"details": map[string]any{"from": unsupported.From, "to": unsupported.To, "unknown": unsupported.Unknown},
		})
	}

	h.logger.Error("tool call failed", "error", err)
	return errorPayload(map[string]any{"code": CodeInternal, "message": "an internal error occurred"})
}

func errorPayload(errorObj map[string]any) *mcp.CallToolResult {
	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
