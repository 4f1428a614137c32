package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"crash-data-audit/internal/history"
	"crash-data-audit/internal/logging"
	"crash-data-audit/internal/metrics"
	"crash-data-audit/internal/model"
	"crash-data-audit/pkg/utils"
)

// Pipeline applies cleaning steps and records every applied step in the
// cleaning log.
type Pipeline struct {
	Log     history.Store
	Clock   func() time.Time
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// New returns a pipeline writing to log.
func New(log history.Store, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{Log: log, Logger: logger, Metrics: m}
}

func (p *Pipeline) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now()
}

// Apply runs step on ds. Exactly one cleaning log entry is appended when the
// step is applied; none on NoOp or Failed.
func (p *Pipeline) Apply(ctx context.Context, ds *model.Dataset, step Step) Outcome {
	log := logging.OrNop(p.Logger).With(zap.String("step", step.Name()))
	if err := ctx.Err(); err != nil {
		return failed(ds, err, "Cleaning cancelled.")
	}

	start := time.Now()
	out := step.Apply(ds)

	if out.Status == StatusApplied && p.Log != nil {
		if _, err := p.Log.AppendCleaning(ctx, out.Message, p.now()); err != nil {
			log.Error("failed to record cleaning step", zap.Error(err))
			out = failed(ds, fmt.Errorf("record cleaning step: %w", err), "Could not record the cleaning step; the dataset was not changed.")
		}
	}
	p.Metrics.RecordCleaningStep(step.Name(), string(out.Status))

	fields := []zap.Field{
		zap.String("status", string(out.Status)),
		zap.String("message", out.Message),
		zap.Int("rows_before", out.RowsBefore),
		zap.Int("rows_after", out.RowsAfter),
		zap.Duration("elapsed", time.Since(start)),
	}
	switch out.Status {
	case StatusFailed:
		log.Warn("cleaning step failed", append(fields, zap.Error(out.Err))...)
	default:
		log.Info("cleaning step finished", fields...)
	}
	return out
}

// ApplyAll runs steps in order, feeding each step the previous result. It
// stops at the first failure.
func (p *Pipeline) ApplyAll(ctx context.Context, ds *model.Dataset, steps []Step) (*model.Dataset, []Outcome) {
	outcomes := make([]Outcome, 0, len(steps))
	for _, step := range steps {
		out := p.Apply(ctx, ds, step)
		outcomes = append(outcomes, out)
		if out.Status == StatusFailed {
			break
		}
		ds = out.Dataset
	}
	return ds, outcomes
}

// ParseStep reads a step from its command-line form:
//
//	impute:<column>:<method>
//	fix-dates[:<column>,<column>...]
//	trim
//	dedupe[:<column>]
//
// Defaults for the key column come from the contract.
func ParseStep(s string, c model.Contract, loc *time.Location) (Step, error) {
	c = c.WithDefaults()
	name, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	switch strings.ToLower(name) {
	case "impute":
		i := strings.LastIndex(arg, ":")
		if i <= 0 || i == len(arg)-1 {
			return nil, fmt.Errorf("%w: %q: want impute:<column>:<method>", ErrUnknownStep, s)
		}
		return Impute{Column: arg[:i], Method: ParseMethod(arg[i+1:])}, nil
	case "fix-dates", "fixdates":
		return FixDates{Columns: utils.SplitList(arg), Location: loc}, nil
	case "trim":
		return TrimWhitespace{}, nil
	case "dedupe":
		key := c.ReportIDColumn
		if arg != "" {
			key = arg
		}
		return RemoveDuplicates{KeyColumn: key}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStep, s)
}
