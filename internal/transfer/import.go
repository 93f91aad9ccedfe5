package transfer

import (
	"context"
	"fmt"

	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/journal"
	"github.com/julianstephens/rindful/internal/logger"
	"github.com/julianstephens/rindful/internal/models"
)

// Journal is the part of journal.Service the importer writes through.
type Journal interface {
	GetEntry(ctx context.Context, date string) (*models.DailyEntry, error)
	MergeWrite(ctx context.Context, date string, patch models.EntryPatch, opts ...journal.WriteOption) (*models.DailyEntry, error)
	ReconcileStats(ctx context.Context) (models.UserStats, error)
}

// Outcome is the result of importing one record.
type Outcome string

const (
	OutcomeImported Outcome = "success"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// ProgressFunc is called after each record.
type ProgressFunc func(processed, total int, outcome Outcome)

type Options struct {
	// Overwrite writes records even when the stored entry already has content.
	Overwrite  bool
	OnProgress ProgressFunc
}

// RecordError describes one failed record.
type RecordError struct {
	Row   int    `json:"row"`
	Date  string `json:"date"`
	Error string `json:"error"`
}

type Result struct {
	Total    int           `json:"total"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Errors   []RecordError `json:"errors"`
}

type Importer struct {
	journal Journal
}

func NewImporter(j Journal) *Importer {
	return &Importer{journal: j}
}

// Import parses data and merges each record into the journal. A file-level
// parse failure returns before anything is written. Per-record failures are
// counted and the batch continues. The stats cache is rebuilt once at the
// end, keeping the longest streak.
func (im *Importer) Import(ctx context.Context, data []byte, format string, opts Options) (Result, error) {
	records, err := Parse(data, format)
	if err != nil {
		return Result{}, err
	}
	if len(records) == 0 {
		return Result{}, rerrors.Malformed("no entries found in file")
	}

	res := Result{Total: len(records), Errors: []RecordError{}}
	for i, rec := range records {
		outcome := im.importOne(ctx, rec, opts.Overwrite, &res)
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, res.Total, outcome)
		}
	}

	if res.Imported > 0 {
		if _, err := im.journal.ReconcileStats(ctx); err != nil {
			logger.Warn("Stats rebuild after import failed", "error", fmt.Errorf("%w: %v", rerrors.ErrStatsUpdateFailed, err))
		}
	}
	logger.Info("Import finished", "total", res.Total, "imported", res.Imported, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

func (im *Importer) importOne(ctx context.Context, rec Record, overwrite bool, res *Result) Outcome {
	fail := func(err error) Outcome {
		res.Failed++
		res.Errors = append(res.Errors, RecordError{Row: rec.Row, Date: rec.Date, Error: err.Error()})
		logger.Debug("Import record failed", "row", rec.Row, "date", rec.Date, "error", err)
		return OutcomeFailed
	}

	if rec.Err != nil {
		return fail(rec.Err)
	}
	if !overwrite {
		existing, err := im.journal.GetEntry(ctx, rec.Date)
		if err != nil {
			return fail(err)
		}
		if existing != nil && existing.Content != "" {
			res.Skipped++
			return OutcomeSkipped
		}
	}
	if rec.Patch.IsEmpty() {
		res.Skipped++
		return OutcomeSkipped
	}
	if _, err := im.journal.MergeWrite(ctx, rec.Date, rec.Patch, journal.WithoutStats()); err != nil {
		return fail(err)
	}
	res.Imported++
	return OutcomeImported
}
