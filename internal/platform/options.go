package platform

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
)

// Require returns the first non-empty candidate, checked in order: the
// caller's option, then the package's config for the same dialect. It
// returns a *errors.MissingOptionError naming field when both are empty.
func Require(f format.Format, field, option, configured string) (string, error) {
	if option != "" {
		return option, nil
	}
	if configured != "" {
		return configured, nil
	}
	return "", errors.NewMissingOption(f.String(), field)
}

// ValidateGlobs checks each pattern with doublestar and reports the first
// malformed one as an *errors.InvalidOptionError.
func ValidateGlobs(f format.Format, field string, globs []string) error {
	for _, g := range globs {
		if strings.TrimSpace(g) == "" || !doublestar.ValidatePattern(g) {
			return &errors.InvalidOptionError{
				Format: f.String(),
				Field:  field,
				Value:  g,
				Reason: "not a valid glob pattern",
			}
		}
	}
	return nil
}

// SplitList splits a comma-separated option, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
