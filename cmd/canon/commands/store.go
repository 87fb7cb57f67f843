package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/canon/internal/convert"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/internal/store"
)

var (
	storePath       string
	storeImportFrom string
	storeListJSON   bool
	storeShowFormat string
)

func init() {
	storeCmd.PersistentFlags().StringVar(&storePath, "store", "",
		"package store file (default: store.path from config)")

	storeImportCmd.Flags().StringVar(&storeImportFrom, "from", "",
		"source format for file arguments (default: detected from each path)")
	storeListCmd.Flags().BoolVar(&storeListJSON, "json", false, "Output in JSON format")
	storeShowCmd.Flags().StringVar(&storeShowFormat, "format", "",
		"print the stored rendering for this format instead of the package")

	storeCmd.AddCommand(storeImportCmd, storeListCmd, storeShowCmd)
	rootCmd.AddCommand(storeCmd)
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local package store",
	Long: `Manage the local store of canonical packages.

Imported artifacts are decoded once and kept in canonical form, so
"canon batch" can re-render all of them into any dialect.`,
}

var storeImportCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Decode artifacts and store them",
	Long: `Decode artifacts and store their canonical packages.

A file argument is decoded as --from, or as the dialect its path implies.
A directory argument is treated as a project root: every dialect layout
under it (.cursor/rules, .claude/skills, .kiro/steering, ...) is scanned
and each artifact found is imported.

Examples:
  # Import every artifact in the current project
  canon store import .

  # Import one file
  canon store import docs/review.md --from generic`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStoreImport(cmd, args, cmd.OutOrStdout())
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored packages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runStoreList(cmd, cmd.OutOrStdout())
	},
}

var storeShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored package or one of its renderings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStoreShow(cmd, args[0], cmd.OutOrStdout())
	},
}

// openStore opens the store named by --store or the config.
func openStore(logger *slog.Logger) (*store.Store, error) {
	path := storePath
	if path == "" {
		cfg, err := currentConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Store.Path
	}
	s, err := store.Open(path, logger)
	if err != nil {
		return nil, errors.NewSystemError(err, "check store.path in your config")
	}
	return s, nil
}

// importTarget is one artifact to import.
type importTarget struct {
	path string
	from format.Format
}

// importTargets expands args into artifacts, scanning directories as
// project roots.
func importTargets(args []string) ([]importTarget, error) {
	var targets []importTarget
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.NewUserError(errors.Wrapf(err, "reading %s", arg), "check the path")
		}
		if !info.IsDir() {
			f, err := resolveFormat(storeImportFrom, arg, "from")
			if err != nil {
				return nil, err
			}
			targets = append(targets, importTarget{path: arg, from: f})
			continue
		}
		for _, found := range platform.DetectPresent(arg) {
			for _, p := range found.Artifacts {
				targets = append(targets, importTarget{path: p, from: found.Format})
			}
		}
	}
	return targets, nil
}

func runStoreImport(cmd *cobra.Command, args []string, w io.Writer) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	targets, err := importTargets(args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.NewUserError(errors.New("no artifacts found"), "pass a file or a project root holding dialect directories")
	}

	s, err := openStore(logger)
	if err != nil {
		return err
	}
	defer s.Close()

	c := newConverter(logger)
	for _, t := range targets {
		id, warnings, err := importOne(cmd, s, c, t)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s%s%s  %s (%s)\n", colorGreen, id, colorReset, t.path, t.from)
		for _, warning := range warnings {
			logger.Warn("import", "path", t.path, "warning", warning)
		}
	}
	return nil
}

func importOne(cmd *cobra.Command, s *store.Store, c *convert.Converter, t importTarget) (string, []string, error) {
	raw, err := readInput(t.path, nil)
	if err != nil {
		return "", nil, err
	}
	hints := hintsFor(t.path)
	if abs, err := filepath.Abs(t.path); err == nil {
		hints.SourceURL = "file://" + filepath.ToSlash(abs)
	}
	pkg, warnings, err := c.Decode(raw, t.from, hints)
	if err != nil {
		return "", nil, conversionError(err)
	}
	id, err := s.Put(cmd.Context(), pkg)
	if err != nil {
		return "", nil, errors.NewSystemError(err, "")
	}
	return id, warnings, nil
}

// storeSummaryJSON is one package in JSON list output.
type storeSummaryJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SourceFormat string `json:"sourceFormat"`
	Subtype      string `json:"subtype"`
	Renderings   int    `json:"renderings"`
	UpdatedAt    string `json:"updatedAt"`
}

func runStoreList(cmd *cobra.Command, w io.Writer) error {
	s, err := openStore(logging.FromContext(cmd.Context()))
	if err != nil {
		return err
	}
	defer s.Close()

	sums, err := s.List(cmd.Context())
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	if storeListJSON {
		out := make([]storeSummaryJSON, len(sums))
		for i, sum := range sums {
			out[i] = storeSummaryJSON{
				ID:           sum.ID,
				Name:         sum.Name,
				SourceFormat: sum.SourceFormat.String(),
				Subtype:      string(sum.Subtype),
				Renderings:   sum.Renderings,
				UpdatedAt:    sum.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(sums) == 0 {
		fmt.Fprintln(w, "No packages stored")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSOURCE\tSUBTYPE\tRENDERINGS\tUPDATED")
	for _, sum := range sums {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			sum.ID, truncate(sum.Name, 40), sum.SourceFormat, sum.Subtype,
			sum.Renderings, sum.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runStoreShow(cmd *cobra.Command, id string, w io.Writer) error {
	ctx := cmd.Context()
	s, err := openStore(logging.FromContext(ctx))
	if err != nil {
		return err
	}
	defer s.Close()

	if storeShowFormat != "" {
		f, err := resolveFormat(storeShowFormat, "", "format")
		if err != nil {
			return err
		}
		res, err := s.Rendering(ctx, id, f)
		if err != nil {
			return storeLookupError(err, "run canon batch --to "+f.String())
		}
		fmt.Fprint(w, res.Content)
		return nil
	}

	pkg, err := s.Get(ctx, id)
	if err != nil {
		return storeLookupError(err, "run canon store list")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pkg)
}

func storeLookupError(err error, suggestion string) error {
	if errors.Is(err, errors.ErrNotFound) {
		return errors.NewUserError(err, suggestion)
	}
	return errors.NewSystemError(err, "")
}
