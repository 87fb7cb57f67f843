package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/quality"
)

var (
	scoreFrom        string
	scoreVerified    bool
	scoreOfficial    bool
	scoreDownloads   int64
	scoreRating      float64
	scoreRatingCount int
	scoreUpdatedAt   string
	scoreJSON        bool
)

func init() {
	scoreCmd.Flags().StringVar(&scoreFrom, "from", "",
		"source format (default: detected from the file path)")
	scoreCmd.Flags().BoolVar(&scoreVerified, "verified", false,
		"the author's identity is verified")
	scoreCmd.Flags().BoolVar(&scoreOfficial, "official", false,
		"published by the tool vendor")
	scoreCmd.Flags().Int64Var(&scoreDownloads, "downloads", 0,
		"total downloads")
	scoreCmd.Flags().Float64Var(&scoreRating, "rating", 0,
		"mean user rating, 0 to 5")
	scoreCmd.Flags().IntVar(&scoreRatingCount, "rating-count", 0,
		"number of ratings behind --rating")
	scoreCmd.Flags().StringVar(&scoreUpdatedAt, "updated-at", "",
		"last update as a date (2006-01-02) or RFC 3339 time")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false,
		"print the score breakdown as JSON")
	rootCmd.AddCommand(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score <path|->",
	Short: "Rate an artifact for discovery ranking",
	Long: `Rate an instruction artifact on a 0 to 5 scale for ranking in a
registry or marketplace.

The score adds up content quality (up to 2), author credibility (up to 1),
engagement from downloads and ratings (up to 1.5) and recency (up to 0.5),
capped at 5.

Content quality comes from the evaluator the config selects. With
evaluator.provider set to gemini and an API key in CANON_EVALUATOR_API_KEY,
content is rated by the model; short content, timeouts and failures fall
back to a structural heuristic.

Examples:
  # Score a local skill
  canon score .claude/skills/review/SKILL.md

  # Include registry metadata
  canon score rule.mdc --verified --downloads 12000 --rating 4.6 \
    --rating-count 85 --updated-at 2025-06-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScore(cmd, args[0], os.Stdin, cmd.OutOrStdout())
	},
}

func runScore(cmd *cobra.Command, path string, stdin io.Reader, w io.Writer) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	from, err := resolveFormat(scoreFrom, path, "from")
	if err != nil {
		return err
	}
	updated, err := parseUpdatedAt(scoreUpdatedAt)
	if err != nil {
		return err
	}
	raw, err := readInput(path, stdin)
	if err != nil {
		return err
	}

	pkg, _, err := newConverter(logger).Decode(raw, from, hintsFor(path))
	if err != nil {
		return conversionError(err)
	}

	scorer := quality.NewScorer(newEvaluator(ctx, cfg, logger))
	b := scorer.Breakdown(ctx, quality.Snapshot{
		Package:     pkg,
		Verified:    scoreVerified,
		Official:    scoreOfficial,
		Downloads:   scoreDownloads,
		Rating:      scoreRating,
		RatingCount: scoreRatingCount,
		UpdatedAt:   updated,
	})

	if scoreJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}

	fmt.Fprintf(w, "%s%s%s  %.2f / 5\n", colorBold, pkg.Name, colorReset, b.Total)
	fmt.Fprintf(w, "  content:     %.2f  %s(%s)%s\n", b.Content, colorGray, b.Evaluator, colorReset)
	fmt.Fprintf(w, "  credibility: %.2f\n", b.Credibility)
	fmt.Fprintf(w, "  engagement:  %.2f\n", b.Engagement)
	fmt.Fprintf(w, "  recency:     %.2f\n", b.Recency)
	return nil
}

func parseUpdatedAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewUserError(
		errors.Newf("invalid --updated-at %q", s),
		"use a date such as 2025-06-01 or an RFC 3339 time")
}
