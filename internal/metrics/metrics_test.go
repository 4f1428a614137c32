package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordAudit(85)
	m.RecordAudit(100)
	m.RecordCleaningStep("impute", "applied")
	m.RecordCleaningStep("impute", "applied")
	m.RecordCleaningStep("dedupe", "noop")
	m.RecordLoad(nil)
	m.RecordLoad(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuditsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CleaningStepsTotal.WithLabelValues("impute", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CleaningStepsTotal.WithLabelValues("dedupe", "noop")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetLoadsTotal.WithLabelValues("error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAudit(10)
		m.RecordCleaningStep("trim", "applied")
		m.RecordLoad(nil)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordAudit(50)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "crashaudit_audits_total 1")
	assert.Contains(t, string(body), "crashaudit_health_score_bucket")
}
