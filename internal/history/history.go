// Package history keeps the per-session cleaning log and action history.
// Both logs are append-only; entries are returned in the order they were
// appended and only an explicit clear removes them.
package history

import (
	"context"
	"sync"
	"time"

	"crash-data-audit/internal/model"
)

// Actions recorded in the history log.
const (
	ActionDataLoaded      = "Data Loaded"
	ActionAuditPerformed  = "Audit Performed"
	ActionDataCleaned     = "Data Cleaned"
	ActionDashboardViewed = "Dashboard Viewed"
	ActionReset           = "Reset"
)

// Store persists the two logs of one session.
type Store interface {
	AppendCleaning(ctx context.Context, description string, at time.Time) (model.CleaningLogEntry, error)
	CleaningLog(ctx context.Context) ([]model.CleaningLogEntry, error)
	ClearCleaning(ctx context.Context) error

	AppendHistory(ctx context.Context, action, details string, at time.Time) (model.HistoryLogEntry, error)
	History(ctx context.Context) ([]model.HistoryLogEntry, error)
	ClearHistory(ctx context.Context) error
}

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	cleaning []model.CleaningLogEntry
	history  []model.HistoryLogEntry
	seq      int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) AppendCleaning(_ context.Context, description string, at time.Time) (model.CleaningLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	e := model.CleaningLogEntry{SequenceNumber: m.seq, Description: description, AppliedAt: at}
	m.cleaning = append(m.cleaning, e)
	return e, nil
}

func (m *Memory) CleaningLog(context.Context) ([]model.CleaningLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CleaningLogEntry(nil), m.cleaning...), nil
}

// ClearCleaning empties the cleaning log and restarts numbering at 1.
func (m *Memory) ClearCleaning(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleaning = nil
	m.seq = 0
	return nil
}

func (m *Memory) AppendHistory(_ context.Context, action, details string, at time.Time) (model.HistoryLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := model.HistoryLogEntry{Timestamp: at, Action: action, Details: details}
	m.history = append(m.history, e)
	return e, nil
}

func (m *Memory) History(context.Context) ([]model.HistoryLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.HistoryLogEntry(nil), m.history...), nil
}

func (m *Memory) ClearHistory(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	return nil
}
