package quality

import "context"

// Status is the result kind of one evaluation.
type Status int

const (
	// StatusOK means Score is valid.
	StatusOK Status = iota

	// StatusTimedOut means the evaluator did not answer within its deadline.
	StatusTimedOut

	// StatusFailed means the evaluator answered with an error or an
	// unusable response.
	StatusFailed

	// StatusSkipped means the evaluator declined the input, for example
	// because it was too short to judge.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimedOut:
		return "timed_out"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is an evaluation result. Score is in [0,1] and only meaningful
// when Status is StatusOK.
type Outcome struct {
	Status Status
	Score  float64
	Err    error
}

// OK returns a successful outcome with score clamped to [0,1].
func OK(score float64) Outcome {
	return Outcome{Status: StatusOK, Score: clamp(score, 0, 1)}
}

// Evaluator judges the instructional quality of markdown text.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, text string) Outcome
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v != v: // NaN
		return lo
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
