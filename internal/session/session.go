// Package session holds the state of one interactive audit session: the
// current dataset version, both logs and the components that operate on
// them. A Session is created explicitly and passed to every operation.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crash-data-audit/internal/audit"
	"crash-data-audit/internal/history"
	"crash-data-audit/internal/insights"
	"crash-data-audit/internal/logging"
	"crash-data-audit/internal/metrics"
	"crash-data-audit/internal/model"
	"crash-data-audit/internal/pipeline"
	"crash-data-audit/internal/trend"
)

// ActionConsistencyCheck is recorded after an audit that found duplicates.
const ActionConsistencyCheck = "Consistency Check"

// Options configures a new Session. Zero values fall back to defaults.
type Options struct {
	ID       string
	Contract model.Contract
	Location *time.Location
	Parallel bool
	Retry    pipeline.RetryConfig
	Logs     history.Store
	Clock    func() time.Time
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// Session is safe for concurrent use; operations are serialised.
type Session struct {
	mu sync.Mutex

	id       string
	created  time.Time
	contract model.Contract
	location *time.Location
	clock    func() time.Time
	logger   *zap.Logger
	metrics  *metrics.Metrics

	logs     history.Store
	auditor  *audit.Auditor
	pipeline *pipeline.Pipeline
	loader   *pipeline.Loader

	source   string
	original *model.Dataset
	current  *model.Dataset
	version  int
	viewed   int
	report   *model.Report

	onChange func(*Session)
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logs == nil {
		opts.Logs = history.NewMemory()
	}
	contract := opts.Contract.WithDefaults()
	logger := logging.OrNop(opts.Logger).With(zap.String("session_id", opts.ID))

	p := pipeline.New(opts.Logs, logger, opts.Metrics)
	p.Clock = opts.Clock

	return &Session{
		id:       opts.ID,
		created:  opts.Clock(),
		contract: contract,
		location: opts.Location,
		clock:    opts.Clock,
		logger:   logger,
		metrics:  opts.Metrics,
		logs:     opts.Logs,
		auditor: &audit.Auditor{
			Contract: contract,
			Clock:    opts.Clock,
			Location: opts.Location,
			Parallel: opts.Parallel,
			Logger:   logger,
			Metrics:  opts.Metrics,
		},
		pipeline: p,
		loader: &pipeline.Loader{
			Contract: contract,
			Location: opts.Location,
			Retry:    opts.Retry,
			Logger:   logger,
		},
		viewed: -1,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) CreatedAt() time.Time { return s.created }

func (s *Session) Contract() model.Contract { return s.contract }

func (s *Session) Location() *time.Location { return s.location }

// Dataset returns the current dataset version, or nil before a load.
func (s *Session) Dataset() *model.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Version increases every time the current dataset is replaced.
func (s *Session) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Source is the path, URL or upload name of the loaded dataset.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// LastReport returns the most recent audit report, if any.
func (s *Session) LastReport() *model.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Load reads the dataset at pathOrURL and makes it the current and original
// version. On failure the session keeps its previous state and the error
// wraps model.ErrNoDataset.
func (s *Session) Load(ctx context.Context, pathOrURL string) error {
	ds, err := s.loader.Load(ctx, pathOrURL)
	return s.install(ctx, pathOrURL, ds, err)
}

// LoadReader is Load for CSV content already in hand, such as an upload.
func (s *Session) LoadReader(ctx context.Context, name string, r io.Reader) error {
	ds, err := s.loader.Read(r)
	return s.install(ctx, name, ds, err)
}

func (s *Session) install(ctx context.Context, source string, ds *model.Dataset, err error) error {
	s.metrics.RecordLoad(err)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrNoDataset, err)
	}

	s.mu.Lock()
	s.source = source
	s.original = ds
	s.current = ds
	s.version++
	s.report = nil
	s.mu.Unlock()

	if err := s.record(ctx, history.ActionDataLoaded, fmt.Sprintf("Loaded %d rows from %s", ds.NumRows(), source)); err != nil {
		return err
	}
	s.changed()
	return nil
}

// Audit runs all checks on the current dataset.
func (s *Session) Audit(ctx context.Context) (*model.Report, error) {
	ds := s.Dataset()
	if ds == nil {
		return nil, model.ErrNoDataset
	}
	report, err := s.auditor.Run(ctx, ds)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	if err := s.record(ctx, history.ActionAuditPerformed, "Ran DQ checks"); err != nil {
		return report, err
	}
	if report.Consistency.DuplicateCount > 0 {
		if err := s.record(ctx, ActionConsistencyCheck, "Flagged duplicates"); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Clean applies step to the current dataset. An applied step replaces the
// current version; NoOp and Failed outcomes leave it untouched.
func (s *Session) Clean(ctx context.Context, step pipeline.Step) pipeline.Outcome {
	s.mu.Lock()
	out := s.pipeline.Apply(ctx, s.current, step)
	if out.Status == pipeline.StatusApplied {
		s.current = out.Dataset
		s.version++
	}
	s.mu.Unlock()

	if out.Status != pipeline.StatusApplied {
		return out
	}
	s.record(ctx, history.ActionDataCleaned, out.Message)
	s.changed()
	return out
}

// Insights summarises the current dataset by the contract category column.
func (s *Session) Insights() (model.Insights, error) {
	ds := s.Dataset()
	if ds == nil {
		return model.Insights{}, model.ErrNoDataset
	}
	return insights.Generate(ds, s.contract.CategoryColumn), nil
}

// Dashboard returns the headline figures of the current dataset. The view is
// recorded in the history once per dataset version.
func (s *Session) Dashboard(ctx context.Context) (trend.DashboardStats, error) {
	s.mu.Lock()
	ds, version := s.current, s.version
	first := ds != nil && s.viewed != version
	if first {
		s.viewed = version
	}
	s.mu.Unlock()

	if ds == nil {
		return trend.DashboardStats{}, model.ErrNoDataset
	}
	stats := trend.Dashboard(ds, s.contract, s.location)
	if first {
		if err := s.record(ctx, history.ActionDashboardViewed, fmt.Sprintf("Loaded %d rows", ds.NumRows())); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// TrendOptions selects what Trend computes.
type TrendOptions struct {
	Filter trend.FilterOptions
	// Rolling adds the 7-day rolling mean to the daily counts.
	Rolling bool
	// TopN limits the category ranking; zero means 10.
	TopN int
	// Column, when set, adds the distribution of that numeric column.
	Column string
	// SampleSize caps the rows the distribution is computed on. Zero means
	// trend.DefaultSampleSize, negative disables sampling.
	SampleSize int
}

// TrendResult is the data behind the trend view.
type TrendResult struct {
	Rows          int                   `json:"rows"`
	Categories    []string              `json:"categories"`
	Daily         []trend.DailyCount    `json:"daily"`
	TopCategories []trend.CategoryCount `json:"topCategories"`
	Distribution  *trend.Distribution   `json:"distribution,omitempty"`
	// Sampled reports that the distribution covers a sample of the rows.
	Sampled bool `json:"sampled,omitempty"`
}

// Trend filters the current dataset and computes daily counts, the category
// ranking and optionally a distribution. Parts whose column is missing are
// left empty.
func (s *Session) Trend(opts TrendOptions) (TrendResult, error) {
	ds := s.Dataset()
	if ds == nil {
		return TrendResult{}, model.ErrNoDataset
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}

	filtered := trend.Filter(ds, s.contract, opts.Filter, s.location)
	out := TrendResult{
		Rows:       filtered.NumRows(),
		Categories: trend.Categories(ds, s.contract.CategoryColumn),
	}
	if daily, err := trend.DailyCounts(filtered, s.contract.TimestampColumn, s.location, opts.Rolling); err == nil {
		out.Daily = daily
	}
	if top, err := trend.TopCategories(filtered, s.contract.CategoryColumn, opts.TopN); err == nil {
		out.TopCategories = top
	}
	if opts.Column != "" {
		if opts.SampleSize == 0 {
			opts.SampleSize = trend.DefaultSampleSize
		}
		rows, sampled := trend.Sample(filtered, opts.SampleSize, trend.DefaultSeed)
		dist, err := trend.Describe(rows, opts.Column)
		if err != nil {
			return out, err
		}
		out.Distribution = &dist
		out.Sampled = sampled
	}
	return out, nil
}

// CleaningLog returns the applied cleaning steps in order.
func (s *Session) CleaningLog(ctx context.Context) ([]model.CleaningLogEntry, error) {
	return s.logs.CleaningLog(ctx)
}

// History returns the recorded actions in order.
func (s *Session) History(ctx context.Context) ([]model.HistoryLogEntry, error) {
	return s.logs.History(ctx)
}

// ResetData restores the dataset as it was loaded and clears the cleaning log.
func (s *Session) ResetData(ctx context.Context) error {
	s.mu.Lock()
	if s.original == nil {
		s.mu.Unlock()
		return model.ErrNoDataset
	}
	s.current = s.original
	s.version++
	s.report = nil
	rows := s.original.NumRows()
	s.mu.Unlock()

	if err := s.logs.ClearCleaning(ctx); err != nil {
		return fmt.Errorf("clear cleaning log: %w", err)
	}
	if err := s.record(ctx, history.ActionReset, fmt.Sprintf("Restored original dataset (%d rows)", rows)); err != nil {
		return err
	}
	s.changed()
	return nil
}

// ClearHistory empties the action history. The cleaning log is kept.
func (s *Session) ClearHistory(ctx context.Context) error {
	if err := s.logs.ClearHistory(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.logger.Info("history cleared")
	return nil
}

// Reset drops the dataset and clears both logs. The reset itself is the
// first entry of the new history.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.source = ""
	s.original = nil
	s.current = nil
	s.version++
	s.report = nil
	s.mu.Unlock()

	err := errors.Join(s.logs.ClearCleaning(ctx), s.logs.ClearHistory(ctx))
	if err != nil {
		return fmt.Errorf("reset logs: %w", err)
	}
	if err := s.record(ctx, history.ActionReset, "Session reset"); err != nil {
		return err
	}
	s.changed()
	return nil
}

func (s *Session) record(ctx context.Context, action, details string) error {
	if _, err := s.logs.AppendHistory(ctx, action, details, s.clock()); err != nil {
		s.logger.Error("failed to record history", zap.String("action", action), zap.Error(err))
		return fmt.Errorf("record %s: %w", action, err)
	}
	return nil
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange(s)
	}
}
