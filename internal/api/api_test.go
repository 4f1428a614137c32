package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crash-data-audit/internal/api/handler"
	"crash-data-audit/internal/metrics"
	"crash-data-audit/internal/model"
	"crash-data-audit/internal/pipeline"
	"crash-data-audit/internal/session"
	"crash-data-audit/internal/store"
	"crash-data-audit/pkg/utils"
)

const crashCSV = `Report Number,Crash Date/Time,Latitude,Longitude,Agency Name,ACRS Report Type,Weather
R1,03/01/2024 10:00:00 AM,39.1,-77.1,Montgomery,Injury Crash,Clear
R2,03/02/2024 11:00:00 AM,39.2,-77.2,Montgomery,Property Damage Crash,
R2,03/02/2024 12:00:00 PM,39.3,-77.3,Rockville,Injury Crash,Rain
R4,03/04/2024 01:00:00 PM,39.4,-77.4,Gaithersburg,Property Damage Crash,
`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := metrics.New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	reg := session.NewRegistry(db, session.Options{
		Location: time.UTC,
		Clock:    func() time.Time { return now },
		Metrics:  m,
	})
	h := handler.New(reg, &pipeline.Exporter{Output: utils.NewOutputManager(t.TempDir())}, nil)
	srv := httptest.NewServer(NewRouter(h, Options{Metrics: m}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func createSession(t *testing.T, srv *httptest.Server) handler.SessionView {
	t.Helper()
	resp, body := do(t, http.MethodPost, srv.URL+"/api/v1/sessions?name=crashes.csv", "text/csv", crashCSV)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decode[handler.SessionView](t, body)
}

func TestSessionLifecycle(t *testing.T) {
	srv := newServer(t)
	sess := createSession(t, srv)
	assert.True(t, sess.HasDataset)
	assert.Equal(t, 4, sess.Rows)
	assert.Equal(t, "crashes.csv", sess.Source)
	base := srv.URL + "/api/v1/sessions/" + sess.ID

	resp, body := do(t, http.MethodGet, srv.URL+"/api/v1/sessions", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	recs := decode[[]store.SessionRecord](t, body)
	require.Len(t, recs, 1)
	assert.Equal(t, sess.ID, recs[0].ID)

	resp, body = do(t, http.MethodGet, base+"/audit", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	report := decode[model.Report](t, body)
	assert.Equal(t, 1, report.Consistency.DuplicateCount)
	assert.NotEmpty(t, report.SummaryText)

	resp, body = do(t, http.MethodPost, base+"/clean", "application/json",
		`{"steps":["impute:Weather:Fill 'Unknown'","dedupe","impute:Nope:Mean"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	cleaned := decode[handler.CleanResponse](t, body)
	require.Len(t, cleaned.Outcomes, 3)
	assert.Equal(t, pipeline.StatusApplied, cleaned.Outcomes[0].Status)
	assert.Equal(t, pipeline.StatusApplied, cleaned.Outcomes[1].Status)
	assert.Equal(t, pipeline.StatusFailed, cleaned.Outcomes[2].Status)
	assert.Equal(t, "Column Nope not found.", cleaned.Outcomes[2].Message)
	assert.Equal(t, 3, cleaned.Rows)
	assert.Equal(t, 3, cleaned.Version)

	resp, body = do(t, http.MethodGet, base+"/cleaning-log", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	log := decode[[]model.CleaningLogEntry](t, body)
	require.Len(t, log, 2)
	assert.Equal(t, 2, log[1].SequenceNumber)

	resp, body = do(t, http.MethodGet, base+"/dashboard", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"totalRows":3`)

	resp, body = do(t, http.MethodGet, base+"/trend?category=Montgomery&rolling=true", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	tr := decode[session.TrendResult](t, body)
	assert.Equal(t, 2, tr.Rows)

	resp, body = do(t, http.MethodGet, base+"/insights", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ins := decode[model.Insights](t, body)
	require.NotNil(t, ins.TopPerformer)
	assert.Equal(t, "Montgomery", ins.TopPerformer.Value)

	resp, body = do(t, http.MethodGet, base+"/history", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decode[[]model.HistoryLogEntry](t, body)
	var acts []string
	for _, e := range hist {
		acts = append(acts, e.Action)
	}
	assert.Equal(t, []string{"Data Loaded", "Audit Performed", "Consistency Check", "Data Cleaned", "Data Cleaned", "Dashboard Viewed"}, acts)

	resp, _ = do(t, http.MethodDelete, base+"/history", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, http.MethodPost, base+"/reset?scope=data", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, decode[handler.SessionView](t, body).Rows)

	resp, body = do(t, http.MethodPost, base+"/reset", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[handler.SessionView](t, body).HasDataset)

	resp, body = do(t, http.MethodGet, base+"/audit", "", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "no dataset available")

	resp, _ = do(t, http.MethodDelete, base, "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, base, "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExports(t *testing.T) {
	srv := newServer(t)
	sess := createSession(t, srv)
	base := srv.URL + "/api/v1/sessions/" + sess.ID

	resp, body := do(t, http.MethodPost, base+"/exports", "application/json", `{"type":"csv"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	res := decode[pipeline.ExportResult](t, body)
	assert.True(t, res.Success)
	assert.Equal(t, "/api/v1/sessions/"+sess.ID+"/exports/crashes_cleaned.csv", res.DownloadURL)

	resp, body = do(t, http.MethodGet, srv.URL+res.DownloadURL, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(string(body), "Report Number,Crash Date/Time"))

	resp, body = do(t, http.MethodPost, base+"/exports", "application/json", `{"type":"report"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "json", decode[pipeline.ExportResult](t, body).Type)

	resp, _ = do(t, http.MethodPost, base+"/exports", "application/json", `{"type":"xlsx"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, base+"/exports/missing.csv", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestErrors(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/v1/sessions", "application/json", `{"source":"/does/not/exist.csv"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sess := decode[handler.SessionView](t, body)
	assert.False(t, sess.HasDataset)
	assert.Contains(t, sess.Message, "no dataset available")
	assert.Contains(t, sess.Message, "file not found")
	base := srv.URL + "/api/v1/sessions/" + sess.ID

	resp, _ = do(t, http.MethodPost, base+"/load", "application/json", `{"source":"/does/not/exist.csv"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, base+"/clean", "application/json", `{"step":"explode"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, base+"/clean", "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, base+"/clean", "application/json", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodPost, base+"/clean", "application/json", `{"step":"trim"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[handler.CleanResponse](t, body)
	assert.Equal(t, "No dataset available.", out.Outcomes[0].Message)

	resp, _ = do(t, http.MethodGet, base+"/trend?from=yesterday", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, base+"/reset?scope=everything", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/v1/sessions/nope/audit", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "session not found")
}

func TestInfrastructureRoutes(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))

	createSession(t, srv)
	resp, body = do(t, http.MethodGet, srv.URL+"/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `crashaudit_dataset_loads_total{result="ok"} 1`)

	resp, body = do(t, http.MethodGet, srv.URL+"/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/api/v1/sessions/{id}/audit")

	resp, _ = do(t, http.MethodPut, srv.URL+"/api/v1/sessions", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
