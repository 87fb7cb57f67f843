// Package quality scores published packages on a 0 to 5 scale.
//
// Content quality comes from an Evaluator. Evaluators are interchangeable:
// Heuristic is synchronous and always available, Gemini asks a model, Cached
// memoizes another evaluator, and Fallback guards a slow evaluator with a
// timeout and a minimum-length precondition, degrading to the heuristic on
// any outcome other than OK. Scoring never fails.
package quality
