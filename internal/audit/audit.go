package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crash-data-audit/internal/logging"
	"crash-data-audit/internal/metrics"
	"crash-data-audit/internal/model"
)

// Auditor runs the four quality checks over a dataset and scores the result.
// The zero value audits against the default contract in local time.
type Auditor struct {
	Contract model.Contract
	// Clock returns the audit instant used for future-date detection.
	Clock func() time.Time
	// Location reads zone-less timestamps.
	Location *time.Location
	// Parallel runs the checks concurrently.
	Parallel bool
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

func (a *Auditor) now() time.Time {
	if a.Clock != nil {
		return a.Clock()
	}
	return time.Now()
}

func (a *Auditor) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}

// Run audits ds and returns a fresh report. It fails with model.ErrNoDataset
// when ds is nil, or with the context's error.
func (a *Auditor) Run(ctx context.Context, ds *model.Dataset) (*model.Report, error) {
	if ds == nil {
		return nil, model.ErrNoDataset
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logging.OrNop(a.Logger)
	contract := a.Contract.WithDefaults()
	now := a.now()
	start := time.Now()

	var (
		comp model.CompletenessResult
		acc  model.AccuracyResult
		cons model.ConsistencyResult
		tl   model.TimelinessResult
	)
	checks := []func(){
		func() { comp = CheckCompleteness(ds, contract.KeyFieldSet(ds)) },
		func() { acc = CheckAccuracy(ds, AccuracyRules(ds, contract)) },
		func() { cons = CheckConsistency(ds, contract.ReportIDColumn) },
		func() { tl = CheckTimeliness(ds, contract.TimestampColumn, now, a.location()) },
	}

	if a.Parallel {
		var wg sync.WaitGroup
		wg.Add(len(checks))
		for _, check := range checks {
			go func(check func()) {
				defer wg.Done()
				check()
			}(check)
		}
		wg.Wait()
	} else {
		for _, check := range checks {
			check()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	penalties := ScoreBreakdown(comp, cons, acc, tl)
	report := &model.Report{
		AuditID:      uuid.NewString(),
		RanAt:        now,
		Rows:         ds.NumRows(),
		Columns:      ds.NumColumns(),
		Score:        Score(penalties),
		Penalties:    penalties,
		Completeness: comp,
		Accuracy:     acc,
		Consistency:  cons,
		Timeliness:   tl,
		SummaryText:  Summarize(comp, cons, acc, tl),
	}

	a.Metrics.RecordAudit(report.Score)
	log.Info("audit completed",
		zap.String("audit_id", report.AuditID),
		zap.Int("rows", report.Rows),
		zap.Int("score", report.Score),
		zap.Int("duplicates", cons.DuplicateCount),
		zap.Int("accuracy_issues", acc.Total()),
		zap.Int("future_dates", tl.FutureDateCount),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}
