package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/stockimport/internal/logging"
)

// RowSource yields the header and then data rows. *Source satisfies it.
type RowSource interface {
	Header() []string
	Next() ([]string, int, error)
}

// Importer drives rows through the pipeline one at a time.
type Importer struct {
	writer Writer
	opts   Options
}

// NewImporter creates an importer. w may be nil only in dry-run mode.
func NewImporter(w Writer, opts Options) *Importer {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	return &Importer{writer: w, opts: opts}
}

// Run consumes src to the end, updating report once per row. Row-level
// problems are counted and logged, never returned. An error is returned
// only when the source itself stops yielding rows; report still holds
// everything counted up to that point.
func (im *Importer) Run(ctx context.Context, src RowSource, report *Report) error {
	if im.writer == nil && !im.opts.DryRun {
		return errors.New("catalog: live import requires a writer")
	}

	logger := logging.FromContext(ctx)
	header := src.Header()
	report.StartedAt = im.opts.Clock()
	defer func() { report.FinishedAt = im.opts.Clock() }()

	logger.Info("import started",
		"source", report.Source,
		"columns", len(header),
		"dry_run", im.opts.DryRun,
	)

	for {
		row, line, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.Is(err, ErrBlankLine) || errors.As(err, &pe) {
				logging.WithFields(ctx, "line", line).Warn(SkipShapeMismatch.Message(),
					"reason", SkipShapeMismatch,
					"code", SkipShapeMismatch.Code(),
					"error", err,
				)
				report.skip(SkipShapeMismatch)
				continue
			}
			return fmt.Errorf("read line %d: %w", line, err)
		}

		im.processRow(ctx, header, row, line, report)
	}

	logger.Info("import finished",
		"processed", report.Processed,
		"succeeded", report.Succeeded,
		"skipped", report.Skipped,
		"failed", len(report.Failed),
	)
	return nil
}

// processRow runs a single row through mapping, validation, filtering,
// enrichment and persistence.
func (im *Importer) processRow(ctx context.Context, header, row []string, line int, report *Report) {
	logger := logging.WithFields(ctx, "line", line)

	rec, ok := MapRow(header, row)
	if !ok {
		logger.Warn(SkipShapeMismatch.Message(),
			"reason", SkipShapeMismatch,
			"code", SkipShapeMismatch.Code(),
			"fields", len(row),
			"expected", len(header),
		)
		report.skip(SkipShapeMismatch)
		return
	}

	report.Processed++

	if reason := Validate(rec); reason != "" {
		logger.Warn(reason.Message(), "reason", reason, "code", reason.Code(), "row", rec.JSON())
		report.skip(reason)
		return
	}

	if reason := Filter(rec); reason != "" {
		logger.Debug(reason.Message(), "reason", reason, "code", reason.Code(), "row", rec.JSON())
		report.skip(reason)
		return
	}

	enriched := Enrich(rec, im.opts.Clock())

	if im.opts.DryRun {
		logger.Info("Processed (Test mode)", "row", enriched.JSON())
		report.Succeeded++
		return
	}

	enriched.Record = Sanitize(enriched.Record)

	if err := im.writer.Insert(ctx, BuildProduct(enriched)); err != nil {
		logger.Error("insert failed", "error", err, "product_code", enriched.Record.Get(ColProductCode))
		report.fail(line, enriched, err)
		return
	}

	report.Succeeded++
}
