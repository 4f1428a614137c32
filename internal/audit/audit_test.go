package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"crash-data-audit/internal/metrics"
	"crash-data-audit/internal/model"
)

var fixedNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// scenarioDataset has 100 rows, 5 repeated report numbers, two non-key
// columns missing more than 20% and one latitude out of range.
func scenarioDataset(t *testing.T) *model.Dataset {
	t.Helper()
	cols := []string{"Report Number", "Crash Date/Time", "Latitude", "Longitude", "Agency Name", "Weather", "Road Condition"}
	start := time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)
	rows := make([][]model.Value, 100)
	for i := range rows {
		id := fmt.Sprintf("R%03d", i)
		if i >= 95 {
			id = fmt.Sprintf("R%03d", i-95)
		}
		lat := 39.1
		if i == 10 {
			lat = 200
		}
		weather := model.Text("CLEAR")
		if i%4 == 0 {
			weather = model.Null()
		}
		road := model.Text("DRY")
		if i%3 == 0 {
			road = model.Null()
		}
		rows[i] = []model.Value{
			model.Text(id),
			model.Timestamp(start.AddDate(0, 0, i)),
			model.Number(lat),
			model.Number(-77.2),
			model.Text("Montgomery County Police"),
			weather,
			road,
		}
	}
	ds, err := model.NewDataset(cols, rows)
	require.NoError(t, err)
	return ds
}

func TestRunScenario(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(fmt.Sprintf("parallel=%v", parallel), func(t *testing.T) {
			a := &Auditor{Clock: fixedClock, Location: time.UTC, Parallel: parallel}

			report, err := a.Run(context.Background(), scenarioDataset(t))
			require.NoError(t, err)

			assert.Equal(t, 5, report.Consistency.DuplicateCount)
			assert.InDelta(t, 5.0, report.Consistency.DuplicateRate, 1e-9)
			assert.Equal(t, 1, report.Accuracy.Total())
			n, ok := report.Accuracy.Count("Invalid Latitude")
			assert.True(t, ok)
			assert.Equal(t, 1, n)
			assert.ElementsMatch(t, []string{"Weather", "Road Condition"}, report.Completeness.WithStatus(model.StatusWarning))
			assert.Empty(t, report.Completeness.WithStatus(model.StatusCritical))
			assert.Equal(t, 85, report.Score)
			assert.Equal(t,
				"Found 5 duplicate IDs (Duplicate Rate: 5.00%). Identified 1 logical errors (Invalid Latitude: 1).",
				report.SummaryText)
			assert.NotEmpty(t, report.AuditID)
			assert.Equal(t, fixedNow, report.RanAt)
		})
	}
}

func TestRunCleanDataset(t *testing.T) {
	ds, err := model.NewDataset(
		[]string{"Report Number", "Latitude", "Longitude"},
		[][]model.Value{
			{model.Text("A"), model.Number(39), model.Number(-77)},
			{model.Text("B"), model.Number(38.9), model.Number(-77.1)},
		},
	)
	require.NoError(t, err)

	report, err := (&Auditor{Clock: fixedClock}).Run(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 100, report.Score)
	assert.Empty(t, report.Penalties)
	assert.Equal(t, CleanMessage, report.SummaryText)
}

func TestRunNilDataset(t *testing.T) {
	report, err := (&Auditor{Clock: fixedClock}).Run(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrNoDataset)
	assert.Nil(t, report)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Auditor{}).Run(ctx, scenarioDataset(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunReportsFreshIDsAndSerializes(t *testing.T) {
	a := &Auditor{Clock: fixedClock}
	ds := scenarioDataset(t)

	r1, err := a.Run(context.Background(), ds)
	require.NoError(t, err)
	r2, err := a.Run(context.Background(), ds)
	require.NoError(t, err)
	assert.NotEqual(t, r1.AuditID, r2.AuditID)

	raw, err := json.Marshal(r1)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.EqualValues(t, 85, decoded["score"])
	assert.Contains(t, decoded, "completeness")
}

func TestRunLogsAndRecordsMetrics(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()
	a := &Auditor{Clock: fixedClock, Logger: zap.New(core), Metrics: m}

	_, err := a.Run(context.Background(), scenarioDataset(t))
	require.NoError(t, err)

	entries := logs.FilterMessage("audit completed").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 85, entries[0].ContextMap()["score"])
}
