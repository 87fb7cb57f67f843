package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/validator"
)

var (
	validateFrom string
	validateJSON bool
)

var errValidationFailed = errors.New("validation failed")

func init() {
	validateCmd.Flags().StringVar(&validateFrom, "from", "",
		"source format (default: detected from the file path)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false,
		"output results as JSON")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <path|->",
	Short: "Check that an artifact decodes into a valid package",
	Long: `Decode an artifact and check the resulting canonical package.

Errors are invariant violations that would stop any encoder: no metadata,
an untitled package, empty rule lists and the like. Warnings are content
the decoder could not map, which survives only in the source dialect.
With -v the report also lists notes such as the detected subtype.

Exit codes:
  0 - Valid package (warnings OK)
  1 - Validation errors

Examples:
  # Validate a Cursor rule
  canon validate .cursor/rules/go.mdc

  # JSON output for CI/CD
  canon validate .kiro/steering/api.md --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, args[0], os.Stdin, cmd.OutOrStdout())
	},
}

func runValidate(cmd *cobra.Command, path string, stdin io.Reader, w io.Writer) error {
	from, err := resolveFormat(validateFrom, path, "from")
	if err != nil {
		return err
	}
	raw, err := readInput(path, stdin)
	if err != nil {
		return err
	}

	pkg, warnings, err := newConverter(logging.FromContext(cmd.Context())).Decode(raw, from, hintsFor(path))
	if err != nil {
		return conversionError(err)
	}

	result := validator.Check(pkg, warnings)
	result.Subject = path

	reportFormat := validator.FormatText
	if validateJSON {
		reportFormat = validator.FormatJSON
	}
	reporter := validator.NewReporter(w, reportFormat)
	if verbosity > 0 {
		reporter.ShowInfo()
	}
	if err := reporter.Report(result); err != nil {
		return errors.NewSystemError(err, "")
	}

	if result.HasErrors() {
		return errors.NewExitError(errValidationFailed, errors.ExitUser)
	}
	return nil
}
