package quality

import "context"

// Heuristic rates text from its structure alone: headings, length, code
// examples and list items.
type Heuristic struct{}

func (Heuristic) Name() string { return "heuristic" }

// Evaluate never fails.
func (Heuristic) Evaluate(_ context.Context, text string) Outcome {
	return OK(HeuristicScore(Extract(text)))
}

// HeuristicScore maps document stats to [0,1].
func HeuristicScore(st Stats) float64 {
	score := 0.3*ratio(st.Headings, 3) +
		0.4*ratio(st.Runes(), 600) +
		0.1*ratio(st.ListItems, 5)
	if st.CodeBlocks > 0 {
		score += 0.2
	}
	return clamp(score, 0, 1)
}

// ContentQuality is the heuristic score of a package's portable body.
func ContentQuality(text string) float64 {
	return HeuristicScore(Extract(text))
}

func ratio(n, full int) float64 {
	if n >= full {
		return 1
	}
	return float64(n) / float64(full)
}
