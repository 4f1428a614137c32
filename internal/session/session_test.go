package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crash-data-audit/internal/history"
	"crash-data-audit/internal/model"
	"crash-data-audit/internal/pipeline"
	"crash-data-audit/internal/store"
	"crash-data-audit/internal/trend"
)

const crashCSV = `Report Number,Crash Date/Time,Latitude,Longitude,Agency Name,ACRS Report Type,Weather
R1,03/01/2024 10:00:00 AM,39.1,-77.1,Montgomery,Injury Crash,Clear
R2,03/02/2024 11:00:00 AM,39.2,-77.2,Montgomery,Property Damage Crash,
R2,03/02/2024 12:00:00 PM,39.3,-77.3,Rockville,Injury Crash,Rain
R4,03/04/2024 01:00:00 PM,39.4,-77.4,Gaithersburg,Property Damage Crash,
`

func newTestSession(t *testing.T) *Session {
	t.Helper()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return New(Options{
		Location: time.UTC,
		Clock:    func() time.Time { return now },
	})
}

func loaded(t *testing.T) *Session {
	t.Helper()
	s := newTestSession(t)
	require.NoError(t, s.LoadReader(context.Background(), "crashes.csv", strings.NewReader(crashCSV)))
	return s
}

func actions(t *testing.T, s *Session) []string {
	t.Helper()
	entries, err := s.History(context.Background())
	require.NoError(t, err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

func TestOperationsRequireDataset(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	_, err := s.Audit(ctx)
	assert.ErrorIs(t, err, model.ErrNoDataset)
	_, err = s.Insights()
	assert.ErrorIs(t, err, model.ErrNoDataset)
	_, err = s.Dashboard(ctx)
	assert.ErrorIs(t, err, model.ErrNoDataset)
	_, err = s.Trend(TrendOptions{})
	assert.ErrorIs(t, err, model.ErrNoDataset)
	assert.ErrorIs(t, s.ResetData(ctx), model.ErrNoDataset)

	out := s.Clean(ctx, pipeline.TrimWhitespace{})
	assert.Equal(t, pipeline.StatusFailed, out.Status)
	assert.Equal(t, "No dataset available.", out.Message)
	assert.Empty(t, actions(t, s))
}

func TestLoad(t *testing.T) {
	s := loaded(t)
	assert.Equal(t, 1, s.Version())
	assert.Equal(t, "crashes.csv", s.Source())
	assert.Equal(t, 4, s.Dataset().NumRows())

	entries, err := s.History(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.ActionDataLoaded, entries[0].Action)
	assert.Equal(t, "Loaded 4 rows from crashes.csv", entries[0].Details)
}

func TestLoadFailureKeepsState(t *testing.T) {
	s := loaded(t)
	err := s.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNoDataset)
	assert.Contains(t, err.Error(), "file not found")
	assert.Equal(t, 1, s.Version())
	assert.Equal(t, 4, s.Dataset().NumRows())
}

func TestAuditRecordsDuplicates(t *testing.T) {
	s := loaded(t)
	report, err := s.Audit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Consistency.DuplicateCount)
	assert.Same(t, report, s.LastReport())
	assert.Equal(t, []string{history.ActionDataLoaded, history.ActionAuditPerformed, ActionConsistencyCheck}, actions(t, s))
}

func TestDashboardRecordedOncePerVersion(t *testing.T) {
	ctx := context.Background()
	s := loaded(t)

	stats, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalRows)
	assert.Equal(t, "Montgomery", stats.TopCategory)
	require.NotNil(t, stats.InjuryCrashes)
	assert.Equal(t, 2, *stats.InjuryCrashes)

	_, err = s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{history.ActionDataLoaded, history.ActionDashboardViewed}, actions(t, s))

	out := s.Clean(ctx, pipeline.Impute{Column: "Weather", Method: pipeline.MethodFillUnknown})
	require.Equal(t, pipeline.StatusApplied, out.Status)
	_, err = s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		history.ActionDataLoaded,
		history.ActionDashboardViewed,
		history.ActionDataCleaned,
		history.ActionDashboardViewed,
	}, actions(t, s))
}

func TestCleanVersions(t *testing.T) {
	ctx := context.Background()
	s := loaded(t)
	before := s.Dataset()

	out := s.Clean(ctx, pipeline.Impute{Column: "Weather", Method: pipeline.MethodFillUnknown})
	require.Equal(t, pipeline.StatusApplied, out.Status)
	assert.Equal(t, 2, s.Version())
	assert.Equal(t, 0, s.Dataset().MissingCount("Weather"))
	assert.Equal(t, 2, before.MissingCount("Weather"), "previous version is untouched")

	noop := s.Clean(ctx, pipeline.Impute{Column: "Weather", Method: pipeline.MethodFillUnknown})
	assert.Equal(t, pipeline.StatusNoOp, noop.Status)
	assert.Equal(t, 2, s.Version())

	bad := s.Clean(ctx, pipeline.Impute{Column: "Nope", Method: pipeline.MethodMean})
	assert.Equal(t, pipeline.StatusFailed, bad.Status)
	assert.Equal(t, 2, s.Version())

	entries, err := s.CleaningLog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].SequenceNumber)
	assert.Equal(t, "Filled missing Weather with 'Unknown'", entries[0].Description)
}

type brokenHistory struct {
	*history.Memory
	broken bool
}

func (b *brokenHistory) AppendHistory(ctx context.Context, action, details string, at time.Time) (model.HistoryLogEntry, error) {
	if b.broken {
		return model.HistoryLogEntry{}, errors.New("disk full")
	}
	return b.Memory.AppendHistory(ctx, action, details, at)
}

func TestCleanSurvivesHistoryFailure(t *testing.T) {
	ctx := context.Background()
	logs := &brokenHistory{Memory: history.NewMemory()}
	s := New(Options{Location: time.UTC, Logs: logs})
	require.NoError(t, s.LoadReader(ctx, "crashes.csv", strings.NewReader(crashCSV)))

	logs.broken = true
	out := s.Clean(ctx, pipeline.RemoveDuplicates{KeyColumn: "Report Number"})
	assert.Equal(t, pipeline.StatusApplied, out.Status)
	assert.Equal(t, 2, s.Version())
	assert.Equal(t, 3, s.Dataset().NumRows())

	entries, err := s.CleaningLog(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, []string{history.ActionDataLoaded}, actions(t, s))
}

func TestResetData(t *testing.T) {
	ctx := context.Background()
	s := loaded(t)
	s.Clean(ctx, pipeline.RemoveDuplicates{KeyColumn: "Report Number"})
	require.Equal(t, 3, s.Dataset().NumRows())

	require.NoError(t, s.ResetData(ctx))
	assert.Equal(t, 4, s.Dataset().NumRows())
	assert.Equal(t, 3, s.Version())
	entries, err := s.CleaningLog(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, history.ActionReset, actions(t, s)[len(actions(t, s))-1])
}

func TestResetAndClearHistory(t *testing.T) {
	ctx := context.Background()
	s := loaded(t)
	s.Clean(ctx, pipeline.TrimWhitespace{})
	_, err := s.Audit(ctx)
	require.NoError(t, err)

	require.NoError(t, s.ClearHistory(ctx))
	assert.Empty(t, actions(t, s))

	require.NoError(t, s.Reset(ctx))
	assert.Nil(t, s.Dataset())
	assert.Nil(t, s.LastReport())
	assert.Equal(t, []string{history.ActionReset}, actions(t, s))
	entries, err := s.CleaningLog(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTrend(t *testing.T) {
	s := loaded(t)
	res, err := s.Trend(TrendOptions{
		Filter: trend.FilterOptions{Categories: []string{"Montgomery"}},
		Column: "Latitude",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, []string{"Gaithersburg", "Montgomery", "Rockville"}, res.Categories)
	require.Len(t, res.TopCategories, 1)
	assert.Equal(t, "Montgomery", res.TopCategories[0].Value)
	require.Len(t, res.Daily, 2)
	assert.Equal(t, "2024-03-01", res.Daily[0].Day)
	require.NotNil(t, res.Distribution)
	assert.Equal(t, 2, res.Distribution.Count)
	assert.False(t, res.Sampled)

	res, err = s.Trend(TrendOptions{Column: "Latitude", SampleSize: 3})
	require.NoError(t, err)
	assert.True(t, res.Sampled)
	assert.Equal(t, 3, res.Distribution.Count)
	assert.Equal(t, 4, res.Rows)

	_, err = s.Trend(TrendOptions{Column: "Agency Name"})
	assert.ErrorIs(t, err, model.ErrNonNumeric)
}

func TestInsights(t *testing.T) {
	s := loaded(t)
	got, err := s.Insights()
	require.NoError(t, err)
	require.NotNil(t, got.TopPerformer)
	assert.Equal(t, "Montgomery", got.TopPerformer.Value)
	require.NotNil(t, got.PainPoint)
	assert.Equal(t, "Weather", got.PainPoint.Column)
	assert.NotEmpty(t, got.Narrative)
}

func TestRegistryWithStore(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reg := NewRegistry(db, Options{Location: time.UTC})
	s, err := reg.Create(ctx)
	require.NoError(t, err)

	got, err := reg.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, s.LoadReader(ctx, "crashes.csv", strings.NewReader(crashCSV)))
	s.Clean(ctx, pipeline.TrimWhitespace{})

	list, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "crashes.csv", list[0].Source)
	assert.Equal(t, 4, list[0].Rows)

	h, err := db.Logs(s.ID()).History(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, h)
	assert.Equal(t, history.ActionDataLoaded, h[0].Action)

	_, err = reg.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, reg.Delete(ctx, s.ID()))
	_, err = reg.Get(ctx, s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, reg.Delete(ctx, s.ID()), ErrSessionNotFound)
}

func TestRegistryRestoresPersistedSession(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	before := NewRegistry(db, Options{Location: time.UTC})
	s, err := before.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, s.LoadReader(ctx, "crashes.csv", strings.NewReader(crashCSV)))

	after := NewRegistry(db, Options{Location: time.UTC})
	got, err := after.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, s.ID(), got.ID())
	assert.Equal(t, "crashes.csv", got.Source())
	assert.Equal(t, 1, got.Version())
	assert.Nil(t, got.Dataset())

	h, err := got.History(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, h)
	assert.Equal(t, history.ActionDataLoaded, h[0].Action)

	again, err := after.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Same(t, got, again)

	_, err = got.Audit(ctx)
	assert.ErrorIs(t, err, model.ErrNoDataset)

	require.NoError(t, after.Delete(ctx, s.ID()))
	_, err = db.GetSession(ctx, s.ID())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegistryInMemory(t *testing.T) {
	_, err := NewRegistry(nil, Options{}).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	ctx := context.Background()
	reg := NewRegistry(nil, Options{})
	a, err := reg.Create(ctx)
	require.NoError(t, err)
	b, err := reg.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())

	list, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
