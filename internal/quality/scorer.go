package quality

import (
	"context"
	"math"
	"time"

	"github.com/thoreinstein/canon/internal/canonical"
)

// Snapshot is everything the scorer knows about a published package.
type Snapshot struct {
	Package *canonical.Package

	// Verified marks an author whose identity has been confirmed.
	Verified bool

	// Official marks a package published by the tool vendor itself.
	Official bool

	Downloads int64

	// Rating is the mean user rating on a 0 to 5 scale; RatingCount is the
	// number of ratings behind it.
	Rating      float64
	RatingCount int

	UpdatedAt time.Time
}

// Breakdown is a score split by component.
type Breakdown struct {
	Content     float64 `json:"content"`
	Credibility float64 `json:"credibility"`
	Engagement  float64 `json:"engagement"`
	Recency     float64 `json:"recency"`
	Total       float64 `json:"total"`

	// Evaluator names the evaluator that produced the content score.
	Evaluator string `json:"evaluator"`
}

// Scorer combines content quality, author credibility, engagement and
// recency into a score in [0,5].
type Scorer struct {
	evaluator Evaluator
	now       func() time.Time
}

// NewScorer returns a scorer using e for content quality. A nil e uses the
// heuristic.
func NewScorer(e Evaluator) *Scorer {
	if e == nil {
		e = Heuristic{}
	}
	return &Scorer{evaluator: e, now: time.Now}
}

// Score returns the total score in [0,5].
func (s *Scorer) Score(ctx context.Context, snap Snapshot) float64 {
	return s.Breakdown(ctx, snap).Total
}

// Breakdown scores each component.
func (s *Scorer) Breakdown(ctx context.Context, snap Snapshot) Breakdown {
	text := PackageText(snap.Package)
	b := Breakdown{Evaluator: s.evaluator.Name()}

	out := s.evaluator.Evaluate(ctx, text)
	if out.Status != StatusOK {
		// Evaluators used without Fallback may still fail; scoring must not.
		out = Heuristic{}.Evaluate(ctx, text)
		b.Evaluator = Heuristic{}.Name()
	}
	b.Content = 2 * out.Score

	if snap.Verified {
		b.Credibility += 0.5
	}
	if snap.Official {
		b.Credibility += 0.5
	}

	if snap.Downloads > 0 {
		b.Engagement = math.Min(math.Log10(float64(snap.Downloads)+1)/5, 1)
	}
	if snap.RatingCount > 0 {
		b.Engagement += clamp(snap.Rating, 0, 5) / 5 * 0.5
	}

	b.Recency = recency(s.now().Sub(snap.UpdatedAt), snap.UpdatedAt.IsZero())

	b.Total = clamp(b.Content+b.Credibility+b.Engagement+b.Recency, 0, 5)
	return b
}

func recency(age time.Duration, unknown bool) float64 {
	const day = 24 * time.Hour
	switch {
	case unknown:
		return 0
	case age <= 30*day:
		return 0.5
	case age <= 180*day:
		return 0.3
	case age <= 365*day:
		return 0.1
	default:
		return 0
	}
}
