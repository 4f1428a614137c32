package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"crash-data-audit/internal/logging"
	"crash-data-audit/internal/model"
	"crash-data-audit/internal/pipeline"
	"crash-data-audit/internal/session"
	"crash-data-audit/internal/store"
	"crash-data-audit/pkg/router"
)

// Handler serves the session API.
type Handler struct {
	Sessions *session.Registry
	Exporter *pipeline.Exporter
	Logger   *zap.Logger
}

func New(sessions *session.Registry, exporter *pipeline.Exporter, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Exporter: exporter, Logger: logging.OrNop(logger)}
}

// LoadRequest names a CSV to load: a local path or an http(s) URL.
type LoadRequest struct {
	Source string `json:"source" example:"data/crash_reports.csv"`
}

// SessionView describes a session and its current dataset.
type SessionView struct {
	ID         string    `json:"id"`
	Source     string    `json:"source,omitempty"`
	Version    int       `json:"version"`
	HasDataset bool      `json:"hasDataset"`
	Rows       int       `json:"rows"`
	Columns    []string  `json:"columns"`
	CreatedAt  time.Time `json:"createdAt"`
	// Message explains why no dataset is available after a failed load.
	Message string `json:"message,omitempty"`
}

// CleanRequest lists cleaning steps in their textual form, e.g.
// "impute:Weather:Fill 'Unknown'", "fix-dates", "trim" or "dedupe".
type CleanRequest struct {
	Step  string   `json:"step,omitempty"`
	Steps []string `json:"steps,omitempty"`
}

// CleanResponse reports the outcome of every attempted step.
type CleanResponse struct {
	Outcomes []pipeline.Outcome `json:"outcomes"`
	Version  int                `json:"version"`
	Rows     int                `json:"rows"`
}

// ExportRequest selects what to export: "csv" for the current dataset or
// "report" for the latest audit report.
type ExportRequest struct {
	Type string `json:"type" example:"csv"`
}

func view(s *session.Session) SessionView {
	ds := s.Dataset()
	return SessionView{
		ID:         s.ID(),
		Source:     s.Source(),
		Version:    s.Version(),
		HasDataset: ds != nil,
		Rows:       ds.NumRows(),
		Columns:    ds.Columns(),
		CreatedAt:  s.CreatedAt(),
	}
}

// Health reports liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// CreateSession starts a session, optionally loading a dataset
// @Summary Create a session
// @Description Create a new audit session. The body may name a CSV to load (JSON) or carry the CSV itself (text/csv).
// @Tags sessions
// @Accept json,text/csv
// @Produce json
// @Param request body LoadRequest false "Dataset to load"
// @Param name query string false "Upload name for text/csv bodies"
// @Success 201 {object} SessionView
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/sessions [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Create(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msg, err := h.load(r, s)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := view(s)
	out.Message = msg
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, out)
}

// LoadDataset replaces the dataset of a session
// @Summary Load a dataset
// @Tags sessions
// @Accept json,text/csv
// @Produce json
// @Param id path string true "Session ID"
// @Param request body LoadRequest true "Dataset to load"
// @Success 200 {object} SessionView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/sessions/{id}/load [post]
func (h *Handler) LoadDataset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	msg, err := h.load(r, s)
	switch {
	case err != nil:
		h.fail(w, r, err)
	case msg != "":
		router.Error(w, r, http.StatusUnprocessableEntity, errors.New(msg))
	default:
		render.JSON(w, r, view(s))
	}
}

// load reads the request body into s. A failed load is reported as a message;
// err is only set for malformed requests.
func (h *Handler) load(r *http.Request, s *session.Session) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "upload.csv"
		}
		if err := s.LoadReader(r.Context(), name, r.Body); err != nil {
			return err.Error(), nil
		}
		return "", nil
	}

	var req LoadRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", badRequest(fmt.Errorf("invalid JSON payload: %w", err))
	}
	if req.Source == "" {
		return "", nil
	}
	if err := s.Load(r.Context(), req.Source); err != nil {
		return err.Error(), nil
	}
	return "", nil
}

// ListSessions lists all sessions
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Success 200 {array} store.SessionRecord
// @Failure 500 {object} map[string]string
// @Router /api/v1/sessions [get]
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Sessions.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []store.SessionRecord{}
	}
	render.JSON(w, r, recs)
}

// GetSession returns one session
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, view(s))
}

// DeleteSession removes a session and its logs
// @Summary Delete a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id} [delete]
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(r.Context(), router.Param(r, 0)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Audit runs the data quality checks
// @Summary Audit the current dataset
// @Description Run completeness, accuracy, consistency and timeliness checks and score the dataset.
// @Tags audit
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.Report
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "No dataset loaded"
// @Router /api/v1/sessions/{id}/audit [get]
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	report, err := s.Audit(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Clean applies cleaning steps in order
// @Summary Clean the current dataset
// @Description Apply cleaning steps in order, stopping at the first failure. Failed steps are reported with status "failed".
// @Tags cleaning
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body CleanRequest true "Steps to apply"
// @Success 200 {object} CleanResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/clean [post]
func (h *Handler) Clean(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CleanRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, badRequest(fmt.Errorf("invalid JSON payload: %w", err)))
		return
	}
	specs := req.Steps
	if req.Step != "" {
		specs = append([]string{req.Step}, specs...)
	}
	if len(specs) == 0 {
		h.fail(w, r, badRequest(errors.New("at least one step is required")))
		return
	}

	steps := make([]pipeline.Step, 0, len(specs))
	for _, spec := range specs {
		step, err := pipeline.ParseStep(spec, s.Contract(), s.Location())
		if err != nil {
			h.fail(w, r, badRequest(err))
			return
		}
		steps = append(steps, step)
	}

	resp := CleanResponse{Outcomes: make([]pipeline.Outcome, 0, len(steps))}
	for _, step := range steps {
		out := s.Clean(r.Context(), step)
		resp.Outcomes = append(resp.Outcomes, out)
		if out.Status == pipeline.StatusFailed {
			break
		}
	}
	resp.Version = s.Version()
	resp.Rows = s.Dataset().NumRows()
	render.JSON(w, r, resp)
}

// Insights returns the top performer, pain point and narrative
// @Summary Insights
// @Tags insights
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.Insights
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/sessions/{id}/insights [get]
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := s.Insights()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

// Dashboard returns the headline figures
// @Summary Dashboard
// @Tags insights
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} trend.DashboardStats
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/sessions/{id}/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	stats, err := s.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// Trend returns daily counts, category ranking and an optional distribution
// @Summary Trend data
// @Tags insights
// @Produce json
// @Param id path string true "Session ID"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param category query []string false "Categories to keep" collectionFormat(multi)
// @Param rolling query bool false "Add the 7-day rolling mean"
// @Param top query int false "Number of categories to rank"
// @Param column query string false "Numeric column to describe"
// @Param sample query int false "Rows sampled for the distribution (negative disables)"
// @Success 200 {object} session.TrendResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/sessions/{id}/trend [get]
func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	opts, err := trendOptions(r, s.Location())
	if err != nil {
		h.fail(w, r, badRequest(err))
		return
	}
	out, err := s.Trend(opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

func trendOptions(r *http.Request, loc *time.Location) (session.TrendOptions, error) {
	q := r.URL.Query()
	var opts session.TrendOptions
	for key, dst := range map[string]*time.Time{"from": &opts.Filter.From, "to": &opts.Filter.To} {
		if v := q.Get(key); v != "" {
			t, err := time.ParseInLocation("2006-01-02", v, loc)
			if err != nil {
				return opts, fmt.Errorf("invalid %s date %q", key, v)
			}
			*dst = t
		}
	}
	opts.Filter.Categories = q["category"]
	if v := q.Get("rolling"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid rolling flag %q", v)
		}
		opts.Rolling = b
	}
	if v := q.Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid top %q", v)
		}
		opts.TopN = n
	}
	opts.Column = q.Get("column")
	if v := q.Get("sample"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid sample %q", v)
		}
		opts.SampleSize = n
	}
	return opts, nil
}

// CleaningLog returns the applied cleaning steps
// @Summary Cleaning log
// @Tags cleaning
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} model.CleaningLogEntry
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/cleaning-log [get]
func (h *Handler) CleaningLog(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	entries, err := s.CleaningLog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, entries)
}

// History returns the recorded actions
// @Summary Action history
// @Tags history
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} model.HistoryLogEntry
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	entries, err := s.History(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, entries)
}

// ClearHistory empties the action history
// @Summary Clear history
// @Tags history
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/history [delete]
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.ClearHistory(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset restores the original dataset or resets the whole session
// @Summary Reset
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param scope query string false "data restores the loaded dataset; all (default) drops dataset and logs"
// @Success 200 {object} SessionView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/sessions/{id}/reset [post]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var err error
	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "all":
		err = s.Reset(r.Context())
	case "data":
		err = s.ResetData(r.Context())
	default:
		err = badRequest(fmt.Errorf("unknown reset scope %q", scope))
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, view(s))
}

// CreateExport writes the dataset or the latest report to the output directory
// @Summary Export
// @Tags exports
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ExportRequest true "Export type"
// @Success 201 {object} pipeline.ExportResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} pipeline.ExportResult
// @Router /api/v1/sessions/{id}/exports [post]
func (h *Handler) CreateExport(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req ExportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, r, badRequest(fmt.Errorf("invalid JSON payload: %w", err)))
		return
	}
	ds := s.Dataset()
	if ds == nil {
		h.fail(w, r, model.ErrNoDataset)
		return
	}

	var result pipeline.ExportResult
	switch req.Type {
	case "", "csv":
		result = h.Exporter.ExportDataset(s.ID(), pipeline.ExportFileName(s.Source(), "_cleaned", ".csv"), ds)
	case "report":
		report := s.LastReport()
		if report == nil {
			var err error
			if report, err = s.Audit(r.Context()); err != nil {
				h.fail(w, r, err)
				return
			}
		}
		result = h.Exporter.ExportReport(s.ID(), pipeline.ExportFileName(s.Source(), "_audit_report", ".json"), report)
	default:
		h.fail(w, r, badRequest(fmt.Errorf("unknown export type %q", req.Type)))
		return
	}

	if result.Success {
		render.Status(r, http.StatusCreated)
	} else {
		render.Status(r, http.StatusInternalServerError)
	}
	render.JSON(w, r, result)
}

// DownloadExport serves a previously exported file
// @Summary Download an export
// @Tags exports
// @Produce octet-stream
// @Param id path string true "Session ID"
// @Param file path string true "File name"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/exports/{file} [get]
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	name := router.Param(r, 1)
	path, err := h.Exporter.Output.GetOutputFilePath(s.ID(), name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		router.Error(w, r, http.StatusNotFound, fmt.Errorf("export %s not found", name))
		return
	}
	switch h.Exporter.Output.GetFileType(name) {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
	case "json":
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := router.Param(r, 0)
	if id == "" {
		h.fail(w, r, badRequest(errors.New("session id is required")))
		return nil, false
	}
	s, err := h.Sessions.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return s, true
}

type requestError struct{ err error }

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func badRequest(err error) error { return requestError{err} }

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr requestError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, pipeline.ErrUnknownStep),
		errors.Is(err, model.ErrColumnNotFound),
		errors.Is(err, model.ErrNonNumeric),
		errors.Is(err, model.ErrNoValues):
		router.Error(w, r, http.StatusBadRequest, err)
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, store.ErrNotFound):
		router.Error(w, r, http.StatusNotFound, err)
	case errors.Is(err, model.ErrNoDataset):
		router.Error(w, r, http.StatusConflict, err)
	default:
		h.Logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		router.Error(w, r, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
