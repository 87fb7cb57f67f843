package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/config"
	"github.com/thoreinstein/canon/internal/convert"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/internal/platform/builtin"
	"github.com/thoreinstein/canon/internal/quality"
	"github.com/thoreinstein/canon/pkg/fileutil"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// stdinArg is the path argument that reads from standard input.
const stdinArg = "-"

// newConverter builds a converter over every built-in dialect.
func newConverter(logger *slog.Logger, observers ...convert.Observer) *convert.Converter {
	opts := []convert.Option{convert.WithLogger(logger)}
	for _, o := range observers {
		opts = append(opts, convert.WithObserver(o))
	}
	return convert.New(builtin.New(), opts...)
}

// readInput reads path, or stdin for "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == stdinArg {
		data, err := fileutil.ReadLimited(stdin)
		if errors.Is(err, fileutil.ErrFileTooLarge) {
			return nil, errors.NewUserError(err, "split the artifact or pass a smaller file")
		}
		if err != nil {
			return nil, errors.NewSystemError(err, "could not read standard input")
		}
		return data, nil
	}
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.NewUserError(errors.Wrapf(err, "reading %s", path), "check the path and permissions")
	}
	return data, nil
}

// resolveFormat parses flag, or detects the dialect from path when flag is
// empty.
func resolveFormat(flag, path, flagName string) (format.Format, error) {
	if flag != "" {
		f, err := format.Parse(flag)
		if err != nil {
			return "", errors.NewUserError(err, "valid formats: "+strings.Join(format.Names(), ", "))
		}
		return f, nil
	}
	if path != stdinArg {
		if f, ok := format.Detect(path); ok {
			return f, nil
		}
	}
	return "", errors.NewUserError(
		errors.Newf("cannot detect the format of %s", path),
		"pass --"+flagName+" ("+strings.Join(format.Names(), ", ")+")")
}

// hintsFor derives the artifact name from its path. Skills take the name of
// their directory.
func hintsFor(path string) platform.Hints {
	if path == stdinArg {
		return platform.Hints{}
	}
	base := filepath.Base(path)
	if strings.EqualFold(base, "SKILL.md") {
		return platform.Hints{Name: filepath.Base(filepath.Dir(path))}
	}
	name := strings.TrimSuffix(base, ".instructions.md")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return platform.Hints{Name: name}
}

// optionFlags are the per-dialect encoder options shared by convert and
// batch.
type optionFlags struct {
	name             string
	globs            []string
	alwaysApply      bool
	alwaysApplySet   bool
	inclusion        string
	fileMatchPattern string
	domain           string
	applyTo          string
}

func (o *optionFlags) options() platform.Options {
	opts := platform.Options{
		Name:             o.name,
		Globs:            o.globs,
		Inclusion:        o.inclusion,
		FileMatchPattern: o.fileMatchPattern,
		Domain:           o.domain,
		ApplyTo:          o.applyTo,
	}
	if o.alwaysApplySet {
		v := o.alwaysApply
		opts.AlwaysApply = &v
	}
	return opts
}

// optionFlagNames maps dialect option fields to the flags that supply them.
var optionFlagNames = map[string]string{
	"name":             "--name",
	"globs":            "--globs",
	"alwaysApply":      "--always-apply",
	"inclusion":        "--inclusion",
	"fileMatchPattern": "--file-match-pattern",
	"domain":           "--domain",
	"applyTo":          "--apply-to",
}

// conversionError turns converter errors into exit errors that name the
// flag to fix.
func conversionError(err error) error {
	var (
		missing     *errors.MissingOptionError
		invalid     *errors.InvalidOptionError
		unsupported *errors.UnsupportedPairError
	)
	switch {
	case errors.As(err, &missing):
		hint := "supply the " + missing.Field + " option"
		if flag, ok := optionFlagNames[missing.Field]; ok {
			hint = "pass " + flag
		}
		return errors.NewUserError(err, hint)
	case errors.As(err, &invalid):
		return errors.NewUserError(err, "fix the value of the "+invalid.Field+" option")
	case errors.As(err, &unsupported):
		return errors.NewUserError(err, "valid formats: "+strings.Join(format.Names(), ", "))
	}
	return errors.NewSystemError(err, "")
}

// parseKinds converts --drop values to section kinds.
func parseKinds(names []string) ([]canonical.Kind, error) {
	kinds := make([]canonical.Kind, 0, len(names))
	for _, n := range names {
		k, ok := canonical.ParseKind(strings.TrimSpace(n))
		if !ok {
			valid := make([]string, 0, len(canonical.Kinds()))
			for _, k := range canonical.Kinds() {
				valid = append(valid, string(k))
			}
			return nil, errors.NewUserError(
				errors.Newf("unknown section kind %q", n),
				"valid kinds: "+strings.Join(valid, ", "))
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// newEvaluator builds the content evaluator the config selects. A Gemini
// evaluator that cannot be created degrades to the heuristic with a
// warning; scoring never fails on evaluator setup.
func newEvaluator(ctx context.Context, cfg *config.Config, logger *slog.Logger) quality.Evaluator {
	ec := cfg.Evaluator
	if ec.Provider != config.ProviderGemini {
		return quality.Heuristic{}
	}

	var primary quality.Evaluator
	g, err := quality.NewGemini(ctx, ec.APIKey, ec.Model)
	if err != nil {
		logger.Warn("gemini evaluator unavailable, using heuristic", "error", err)
	} else {
		primary = g
		if ec.CacheSize > 0 {
			if c, err := quality.NewCached(g, ec.CacheSize); err == nil {
				primary = c
			}
		}
	}

	return &quality.Fallback{
		Primary:   primary,
		MinLength: ec.MinContentLength,
		Timeout:   ec.Timeout,
		Logger:    logger,
	}
}

// stdinIsTerminal reports whether standard input is interactive, so
// pickers may prompt.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
