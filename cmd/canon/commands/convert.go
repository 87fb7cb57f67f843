package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/canon/internal/cli/prompt"
	"github.com/thoreinstein/canon/internal/convert"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/paths"
	"github.com/thoreinstein/canon/pkg/fileutil"
)

var (
	convertFrom    string
	convertTo      string
	convertOutput  string
	convertProject string
	convertDrop    []string
	convertJSON    bool
	convertOpts    optionFlags
)

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "",
		"source format (default: detected from the file path)")
	convertCmd.Flags().StringVar(&convertTo, "to", "",
		"target format (prompted for on a terminal when omitted)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "",
		"write the converted artifact to this file instead of stdout")
	convertCmd.Flags().StringVar(&convertProject, "project", "",
		"write the artifact into the target dialect's layout under this project root")
	convertCmd.Flags().StringSliceVar(&convertDrop, "drop", nil,
		"section kinds to remove before encoding (e.g. tools,examples)")
	convertCmd.Flags().BoolVar(&convertJSON, "json", false,
		"print the full conversion result as JSON")
	registerOptionFlags(convertCmd, &convertOpts)
	convertCmd.MarkFlagsMutuallyExclusive("output", "project")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <path|->",
	Short: "Convert an artifact to another dialect",
	Long: `Convert an instruction artifact from one dialect to another.

The source dialect is detected from the path (.mdc, SKILL.md,
.kiro/steering/, *.instructions.md, ...) unless --from is given. Use "-"
to read from standard input.

Options a target needs but cannot infer must be supplied as flags; canon
never guesses them from another dialect's settings. Anything the target
cannot carry is reported as a warning, and every conversion is scored from
0 to 100.

Examples:
  # Cursor rule to Kiro steering
  canon convert .cursor/rules/go.mdc --to kiro --inclusion always

  # Claude skill to Copilot instructions, written into the project
  canon convert .claude/skills/review/SKILL.md --to copilot \
    --apply-to '**/*.go' --project .

  # Pipe and inspect the full result
  cat rule.md | canon convert - --from generic --to cursor --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		convertOpts.alwaysApplySet = cmd.Flags().Changed("always-apply")
		return runConvert(cmd, args[0], os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// registerOptionFlags adds the dialect option flags to cmd.
func registerOptionFlags(cmd *cobra.Command, o *optionFlags) {
	cmd.Flags().StringVar(&o.name, "name", "",
		"artifact name (claude-skill, claude-agent, kiro-agent)")
	cmd.Flags().StringSliceVar(&o.globs, "globs", nil,
		"cursor rule globs")
	cmd.Flags().BoolVar(&o.alwaysApply, "always-apply", false,
		"cursor alwaysApply")
	cmd.Flags().StringVar(&o.inclusion, "inclusion", "",
		"kiro steering inclusion: always, fileMatch, manual")
	cmd.Flags().StringVar(&o.fileMatchPattern, "file-match-pattern", "",
		"kiro steering fileMatchPattern")
	cmd.Flags().StringVar(&o.domain, "domain", "",
		"kiro steering domain")
	cmd.Flags().StringVar(&o.applyTo, "apply-to", "",
		"copilot applyTo glob list, comma separated")
}

func runConvert(cmd *cobra.Command, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	logger := logging.FromContext(cmd.Context())

	from, err := resolveFormat(convertFrom, path, "from")
	if err != nil {
		return err
	}
	to, err := resolveTarget(convertTo, path)
	if err != nil {
		return err
	}
	drop, err := parseKinds(convertDrop)
	if err != nil {
		return err
	}

	raw, err := readInput(path, stdin)
	if err != nil {
		return err
	}

	res, err := newConverter(logger).Run(convert.Request{
		Raw:       raw,
		From:      from,
		To:        to,
		Options:   convertOpts.options(),
		Hints:     hintsFor(path),
		DropKinds: drop,
	})
	if err != nil {
		return conversionError(err)
	}

	written := ""
	switch {
	case convertOutput != "":
		written = convertOutput
	case convertProject != "":
		name := convertOpts.name
		if name == "" {
			name = res.Package.Name
		}
		written, err = paths.ArtifactPath(to, convertProject, name)
		if err != nil {
			return errors.NewUserError(err, "pass --name or -o")
		}
	}
	if written != "" {
		if err := fileutil.WriteArtifact(written, []byte(res.Content)); err != nil {
			return errors.NewSystemError(err, "check that the destination is writable")
		}
		logger.Info("wrote artifact", "path", written, "format", to)
	}

	if convertJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.ConversionResult)
	}
	if written == "" {
		fmt.Fprint(stdout, res.Content)
	}
	if !quiet {
		printConversionSummary(stderr, res, written)
	}
	return nil
}

// resolveTarget parses --to, or asks for it when running interactively.
func resolveTarget(flag, path string) (format.Format, error) {
	if flag != "" {
		return resolveFormat(flag, path, "to")
	}
	if path == stdinArg || !stdinIsTerminal() {
		return "", errors.NewUserError(errors.New("no target format"), "pass --to")
	}
	f, err := prompt.FindFormat("to", format.All())
	if err != nil {
		if errors.Is(err, prompt.ErrSelectionCancelled) {
			return "", errors.NewUserError(err, "pass --to")
		}
		return "", errors.NewSystemError(err, "pass --to")
	}
	return f, nil
}

func printConversionSummary(w io.Writer, res *convert.Result, written string) {
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "%swarning:%s %s\n", colorYellow, colorReset, warning)
	}

	lossy := ""
	if res.LossyConversion {
		lossy = " (lossy)"
	}
	target := res.Format.String()
	if written != "" {
		target = written
	}
	fmt.Fprintf(w, "%s%s%s -> %s: score %d/100%s\n",
		colorBold, res.Package.SourceFormat, colorReset, target, res.QualityScore, lossy)
}
