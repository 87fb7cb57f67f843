package quality

import (
	"context"
	"log/slog"
	"time"

	"github.com/thoreinstein/canon/internal/errors"
)

// Fallback runs Primary under a timeout and answers with the heuristic
// whenever Primary does not return StatusOK. Text shorter than MinLength
// characters of plain prose skips Primary entirely.
type Fallback struct {
	Primary   Evaluator
	MinLength int
	Timeout   time.Duration
	Logger    *slog.Logger
}

func (f *Fallback) Name() string {
	if f.Primary == nil {
		return Heuristic{}.Name()
	}
	return "fallback:" + f.Primary.Name()
}

// Evaluate always returns StatusOK.
func (f *Fallback) Evaluate(ctx context.Context, text string) Outcome {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if f.Primary == nil {
		return Heuristic{}.Evaluate(ctx, text)
	}
	if n := Extract(text).Runes(); n < f.MinLength {
		logger.Debug("content below evaluation threshold, using heuristic",
			"evaluator", f.Primary.Name(), "length", n, "min", f.MinLength)
		return Heuristic{}.Evaluate(ctx, text)
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	out := f.Primary.Evaluate(ctx, text)
	if out.Status == StatusOK {
		return out
	}

	err := errors.Mark(errors.Wrapf(errorOf(out), "%s %s", f.Primary.Name(), out.Status), errors.ErrEvaluationUnavailable)
	logger.Warn("content evaluation unavailable, using heuristic", "error", err)
	return Heuristic{}.Evaluate(ctx, text)
}

func errorOf(out Outcome) error {
	if out.Err != nil {
		return out.Err
	}
	return errors.New("no score")
}
