package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/canon/internal/batch"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/metrics"
	"github.com/thoreinstein/canon/internal/paths"
)

var (
	batchTo          string
	batchWorkers     int
	batchReport      string
	batchMetricsFile string
	batchJSON        bool
	batchOpts        optionFlags
)

func init() {
	batchCmd.Flags().StringVar(&batchTo, "to", "", "target format (required)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0,
		"concurrent conversions (default: batch.workers from config)")
	batchCmd.Flags().StringVar(&batchReport, "report", "",
		"write the run report as JSON to this file")
	batchCmd.Flags().StringVar(&batchMetricsFile, "metrics-file", "",
		"write conversion metrics in Prometheus text format (default: batch.metrics_path or the data dir)")
	batchCmd.Flags().StringVar(&storePath, "store", "",
		"package store file (default: store.path from config)")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print the run report as JSON")
	registerOptionFlags(batchCmd, &batchOpts)
	_ = batchCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Re-render every stored package into one dialect",
	Long: `Re-render every package in the store into one target dialect.

Packages convert concurrently. Each rendering is saved next to its package
and the package's compatibility score for the target is updated. A package
that fails to convert is reported and does not stop the run.

Conversion metrics are written in the Prometheus text format for the
node_exporter textfile collector.

Examples:
  # Render everything as Copilot instructions
  canon batch --to copilot --apply-to '**'

  # Keep a report for CI
  canon batch --to kiro --inclusion manual --report batch.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		batchOpts.alwaysApplySet = cmd.Flags().Changed("always-apply")
		return runBatch(cmd, cmd.OutOrStdout())
	},
}

func runBatch(cmd *cobra.Command, w io.Writer) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	to, err := resolveFormat(batchTo, "", "to")
	if err != nil {
		return err
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}
	metricsPath := batchMetricsFile
	if metricsPath == "" {
		metricsPath = cfg.Batch.MetricsPath
	}
	if metricsPath == "" {
		metricsPath = paths.MetricsPath()
	}

	s, err := openStore(logger)
	if err != nil {
		return err
	}
	defer s.Close()

	m := metrics.New()
	runner := batch.NewRunner(s, newConverter(logger, m), logger)
	report, err := runner.Run(ctx, batch.Request{
		To:         to,
		Options:    batchOpts.options(),
		Workers:    workers,
		ReportPath: batchReport,
	})
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	if err := m.WriteTextfile(metricsPath); err != nil {
		logger.Warn("metrics not written", "path", metricsPath, "error", err)
	}

	if batchJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, item := range report.Items {
		if item.Error != "" {
			fmt.Fprintf(w, "  %sFAIL%s  %s  %s\n", colorYellow, colorReset, item.Name, item.Error)
			continue
		}
		lossy := ""
		if item.Lossy {
			lossy = " lossy"
		}
		fmt.Fprintf(w, "  %s%3d%s  %s%s\n", colorGreen, item.QualityScore, colorReset, item.Name, lossy)
	}
	fmt.Fprintf(w, "%d converted, %d failed (run %s)\n", report.Converted, report.Failed, report.RunID)
	return nil
}
