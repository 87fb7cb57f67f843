// Package batch re-renders every stored package into one target format.
package batch

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/convert"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/internal/store"
	"github.com/thoreinstein/canon/pkg/fileutil"
)

// Store is the part of store.Store a batch run needs.
type Store interface {
	List(ctx context.Context) ([]store.Summary, error)
	Get(ctx context.Context, id string) (*canonical.Package, error)
	Put(ctx context.Context, pkg *canonical.Package) (string, error)
	PutRendering(ctx context.Context, packageID string, res *canonical.ConversionResult) error
}

// Request configures one run.
type Request struct {
	To      format.Format
	Options platform.Options

	// Workers bounds concurrency. Zero means GOMAXPROCS.
	Workers int

	// ReportPath, when set, receives the report as JSON.
	ReportPath string
}

// Item is the outcome for one package.
type Item struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	QualityScore int    `json:"qualityScore,omitempty"`
	Lossy        bool   `json:"lossy,omitempty"`
	Warnings     int    `json:"warnings,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Report summarizes a run.
type Report struct {
	RunID      string        `json:"runId"`
	Target     format.Format `json:"target"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Converted  int           `json:"converted"`
	Failed     int           `json:"failed"`
	Items      []Item        `json:"items"`
}

// Runner fans conversions out over a bounded worker pool. Only the store
// writes serialize.
type Runner struct {
	store     Store
	converter *convert.Converter
	logger    *slog.Logger
}

// NewRunner creates a Runner. A nil logger uses slog.Default().
func NewRunner(s Store, c *convert.Converter, logger *slog.Logger) *Runner {
	return &Runner{store: s, converter: c, logger: logging.WithComponent(logger, "batch")}
}

// Run converts every stored package to req.To. Per-package failures are
// recorded in the report; the returned error covers only listing the store
// and writing the report.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	report := &Report{
		RunID:     uuid.New().String(),
		Target:    req.To,
		StartedAt: time.Now().UTC(),
		Items:     []Item{},
	}
	logger := r.logger.With("run", report.RunID, "to", req.To)

	summaries, err := r.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing stored packages")
	}

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(summaries))
	logger.Info("batch started", "packages", len(summaries), "workers", workers)

	work := make(chan store.Summary, len(summaries))
	results := make(chan Item, len(summaries))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sum := range work {
				results <- r.one(ctx, sum, req, logger)
			}
		}()
	}

	for _, sum := range summaries {
		work <- sum
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	for item := range results {
		if item.Error != "" {
			report.Failed++
		} else {
			report.Converted++
		}
		report.Items = append(report.Items, item)
	}
	slices.SortFunc(report.Items, func(a, b Item) int { return strings.Compare(a.ID, b.ID) })
	report.FinishedAt = time.Now().UTC()

	logger.Info("batch finished", "converted", report.Converted, "failed", report.Failed)

	if req.ReportPath != "" {
		if err := fileutil.AtomicWriteJSON(req.ReportPath, report); err != nil {
			return report, errors.Wrapf(err, "writing report to %s", req.ReportPath)
		}
	}
	return report, nil
}

func (r *Runner) one(ctx context.Context, sum store.Summary, req Request, logger *slog.Logger) Item {
	item := Item{ID: sum.ID, Name: sum.Name}
	fail := func(err error) Item {
		logger.Warn("package not converted", "id", sum.ID, "name", sum.Name, "error", err)
		item.Error = err.Error()
		return item
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	pkg, err := r.store.Get(ctx, sum.ID)
	if err != nil {
		return fail(err)
	}
	res, err := r.converter.Render(pkg, req.To, req.Options)
	if err != nil {
		return fail(err)
	}
	if err := r.store.PutRendering(ctx, sum.ID, &res.ConversionResult); err != nil {
		return fail(err)
	}
	if _, err := r.store.Put(ctx, res.Package); err != nil {
		return fail(err)
	}

	item.QualityScore = res.QualityScore
	item.Lossy = res.LossyConversion
	item.Warnings = len(res.Warnings)
	return item
}
