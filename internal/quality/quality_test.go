package quality

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/logging"
)

// stubEvaluator returns a fixed outcome and counts calls.
type stubEvaluator struct {
	out   Outcome
	calls atomic.Int32
	block bool
}

func (s *stubEvaluator) Name() string { return "stub" }

func (s *stubEvaluator) Evaluate(ctx context.Context, _ string) Outcome {
	s.calls.Add(1)
	if s.block {
		<-ctx.Done()
		return Outcome{Status: StatusTimedOut, Err: ctx.Err()}
	}
	return s.out
}

func TestExtract(t *testing.T) {
	md := "# Title\n\nSome *bold* text.\n\n- first\n- second\n\n```go\nfmt.Println()\n```\n\n<div>raw</div>\n"
	st := Extract(md)

	assert.Equal(t, 1, st.Headings)
	assert.Equal(t, 2, st.ListItems)
	assert.Equal(t, 1, st.CodeBlocks)
	assert.Contains(t, st.Text, "Title")
	assert.Contains(t, st.Text, "Some bold text.")
	assert.Contains(t, st.Text, "second")
	assert.NotContains(t, st.Text, "Println")
	assert.NotContains(t, st.Text, "div")
}

func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name string
		st   Stats
		want float64
	}{
		{"empty", Stats{}, 0},
		{"full", Stats{Text: strings.Repeat("a", 600), Headings: 3, CodeBlocks: 1, ListItems: 5}, 1},
		{"headings only", Stats{Headings: 3}, 0.3},
		{"code only", Stats{CodeBlocks: 2}, 0.2},
		{"half length", Stats{Text: strings.Repeat("a", 300)}, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HeuristicScore(tt.st), 1e-9)
		})
	}
}

func TestPackageText_SkipsCustomSections(t *testing.T) {
	pkg := &canonical.Package{Sections: []canonical.Section{
		&canonical.MetadataSection{Title: "Ignored title"},
		&canonical.InstructionsSection{Content: "Do the thing."},
		&canonical.CustomSection{Content: "secret: yes"},
	}}
	text := PackageText(pkg)
	assert.Equal(t, "Do the thing.\n", text)
	assert.Empty(t, PackageText(nil))
}

func TestGemini_Evaluate(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		err    error
		status Status
		score  float64
	}{
		{"valid", `{"score": 0.8}`, nil, StatusOK, 0.8},
		{"clamped", `{"score": 3}`, nil, StatusOK, 1},
		{"not json", "great!", nil, StatusFailed, 0},
		{"no score", `{"rating": 1}`, nil, StatusFailed, 0},
		{"transport error", "", errors.New("boom"), StatusFailed, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt string
			g := &Gemini{model: "test", generate: func(_ context.Context, p string) (string, error) {
				prompt = p
				return tt.reply, tt.err
			}}
			out := g.Evaluate(context.Background(), "# Heading\n\nUse **tabs**.")
			assert.Equal(t, tt.status, out.Status)
			assert.InDelta(t, tt.score, out.Score, 1e-9)
			assert.Contains(t, prompt, "Heading\nUse tabs.")
		})
	}
}

func TestGemini_TimedOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := &Gemini{model: "test", generate: func(ctx context.Context, _ string) (string, error) {
		return "", ctx.Err()
	}}
	out := g.Evaluate(ctx, "text")
	assert.Equal(t, StatusTimedOut, out.Status)
	assert.Equal(t, "gemini:test", g.Name())
}

func TestCached(t *testing.T) {
	next := &stubEvaluator{out: OK(0.7)}
	c, err := NewCached(next, 8)
	require.NoError(t, err)

	for range 3 {
		assert.Equal(t, OK(0.7), c.Evaluate(context.Background(), "same text"))
	}
	assert.Equal(t, int32(1), next.calls.Load())
	assert.Equal(t, 1, c.Len())

	c.Evaluate(context.Background(), "other text")
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCached_DoesNotCacheFailures(t *testing.T) {
	next := &stubEvaluator{out: Outcome{Status: StatusFailed}}
	c, err := NewCached(next, 8)
	require.NoError(t, err)

	c.Evaluate(context.Background(), "x")
	c.Evaluate(context.Background(), "x")
	assert.Equal(t, int32(2), next.calls.Load())
	assert.Zero(t, c.Len())
}

func TestNewCached_InvalidSize(t *testing.T) {
	_, err := NewCached(Heuristic{}, 0)
	assert.Error(t, err)
}

func TestFallback(t *testing.T) {
	long := strings.Repeat("word ", 50)

	t.Run("primary ok", func(t *testing.T) {
		p := &stubEvaluator{out: OK(0.9)}
		f := &Fallback{Primary: p, MinLength: 10, Logger: logging.ForTest(t)}
		assert.Equal(t, OK(0.9), f.Evaluate(context.Background(), long))
	})

	t.Run("short text skips primary", func(t *testing.T) {
		p := &stubEvaluator{out: OK(0.9)}
		f := &Fallback{Primary: p, MinLength: 1000, Logger: logging.ForTest(t)}
		out := f.Evaluate(context.Background(), long)
		assert.Equal(t, StatusOK, out.Status)
		assert.Zero(t, p.calls.Load())
		assert.Equal(t, Heuristic{}.Evaluate(context.Background(), long), out)
	})

	t.Run("primary failure", func(t *testing.T) {
		p := &stubEvaluator{out: Outcome{Status: StatusFailed, Err: errors.New("quota")}}
		f := &Fallback{Primary: p, Logger: logging.ForTest(t)}
		out := f.Evaluate(context.Background(), long)
		assert.Equal(t, StatusOK, out.Status)
		assert.Equal(t, int32(1), p.calls.Load())
	})

	t.Run("timeout", func(t *testing.T) {
		p := &stubEvaluator{block: true}
		f := &Fallback{Primary: p, Timeout: 10 * time.Millisecond, Logger: logging.ForTest(t)}
		out := f.Evaluate(context.Background(), long)
		assert.Equal(t, StatusOK, out.Status)
	})

	t.Run("no primary", func(t *testing.T) {
		f := &Fallback{}
		assert.Equal(t, "heuristic", f.Name())
		assert.Equal(t, StatusOK, f.Evaluate(context.Background(), long).Status)
	})
}

func richPackage() *canonical.Package {
	return &canonical.Package{Sections: []canonical.Section{
		&canonical.MetadataSection{Title: "Go style"},
		&canonical.InstructionsSection{Title: "Overview", Content: "Write idiomatic Go."},
		&canonical.RulesSection{Title: "Rules", Items: []canonical.Rule{{Content: "Wrap errors"}, {Content: "Use contexts"}}},
	}}
}

func TestScorer_Breakdown(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	s := NewScorer(&stubEvaluator{out: OK(1)})
	s.now = func() time.Time { return now }

	b := s.Breakdown(context.Background(), Snapshot{
		Package:     richPackage(),
		Verified:    true,
		Official:    true,
		Downloads:   99_999,
		Rating:      5,
		RatingCount: 10,
		UpdatedAt:   now.Add(-24 * time.Hour),
	})

	assert.InDelta(t, 2.0, b.Content, 1e-9)
	assert.InDelta(t, 1.0, b.Credibility, 1e-9)
	assert.InDelta(t, 1.5, b.Engagement, 1e-9)
	assert.InDelta(t, 0.5, b.Recency, 1e-9)
	assert.InDelta(t, 5.0, b.Total, 1e-9)
	assert.Equal(t, "stub", b.Evaluator)
}

func TestScorer_FailingEvaluatorFallsBack(t *testing.T) {
	s := NewScorer(&stubEvaluator{out: Outcome{Status: StatusFailed}})
	b := s.Breakdown(context.Background(), Snapshot{Package: richPackage()})

	assert.Equal(t, "heuristic", b.Evaluator)
	assert.Greater(t, b.Content, 0.0)
	assert.Zero(t, b.Recency)
}

func TestScorer_Bounds(t *testing.T) {
	s := NewScorer(nil)
	snaps := []Snapshot{
		{},
		{Package: richPackage(), Downloads: 1 << 40, Rating: 99, RatingCount: 1, Verified: true, Official: true, UpdatedAt: time.Now()},
		{Package: richPackage(), Rating: -3, RatingCount: 1, UpdatedAt: time.Now().Add(-5 * 365 * 24 * time.Hour)},
	}
	for _, snap := range snaps {
		score := s.Score(context.Background(), snap)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 5.0)
	}
	assert.Zero(t, s.Score(context.Background(), Snapshot{}))
}

func TestRecency(t *testing.T) {
	day := 24 * time.Hour
	assert.InDelta(t, 0.5, recency(10*day, false), 1e-9)
	assert.InDelta(t, 0.3, recency(90*day, false), 1e-9)
	assert.InDelta(t, 0.1, recency(300*day, false), 1e-9)
	assert.Zero(t, recency(400*day, false))
	assert.Zero(t, recency(0, true))
}
