package quality

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"github.com/thoreinstein/canon/internal/errors"
)

const geminiPrompt = `Rate how useful the following instructions would be to an AI coding assistant.
Consider clarity, specificity and whether concrete examples are given.
Reply with JSON of the form {"score": <number between 0 and 1>}.

`

// generateFunc sends one prompt and returns the model's raw text reply.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// Gemini asks a Gemini model to rate content. It makes exactly one call per
// evaluation and never retries.
type Gemini struct {
	model    string
	generate generateFunc
}

// NewGemini creates an evaluator backed by the Gemini API. An empty apiKey
// lets the client read GEMINI_API_KEY or GOOGLE_API_KEY from the
// environment.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating gemini client")
	}
	return &Gemini{
		model: model,
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := cli.Models.GenerateContent(ctx, model,
				[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
				&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
			)
			if err != nil {
				return "", err
			}
			if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
				return "", errors.New("empty response")
			}
			return resp.Candidates[0].Content.Parts[0].Text, nil
		},
	}, nil
}

func (g *Gemini) Name() string { return "gemini:" + g.model }

// Evaluate sends the plain text of md to the model.
func (g *Gemini) Evaluate(ctx context.Context, md string) Outcome {
	reply, err := g.generate(ctx, geminiPrompt+Extract(md).Text)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{Status: StatusTimedOut, Err: ctx.Err()}
		}
		return Outcome{Status: StatusFailed, Err: err}
	}

	var parsed struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &parsed); err != nil {
		return Outcome{Status: StatusFailed, Err: errors.Wrap(err, "parsing gemini reply")}
	}
	if parsed.Score == nil {
		return Outcome{Status: StatusFailed, Err: errors.New("gemini reply has no score")}
	}
	return OK(*parsed.Score)
}
