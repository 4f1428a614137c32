package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"crash-data-audit/internal/history"
	"crash-data-audit/internal/model"
)

// ErrNotFound is returned when a session record does not exist.
var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL DEFAULT '',
	rows INTEGER NOT NULL DEFAULT 0,
	version INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS cleaning_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	description TEXT NOT NULL,
	applied_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cleaning_log_session ON cleaning_log (session_id, seq);
CREATE TABLE IF NOT EXISTS history_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	ts DATETIME NOT NULL,
	action TEXT NOT NULL,
	details TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_log_session ON history_log (session_id, id);
`

// DB stores session records and their logs in SQLite.
type DB struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn and creates the tables.
// ":memory:" keeps everything in process.
func Open(dsn string) (*DB, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: an in-memory database exists per connection, and
	// SQLite serialises writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &DB{db: db}, nil
}

func (s *DB) Close() error {
	return s.db.Close()
}

// SessionRecord is the persisted summary of a session.
type SessionRecord struct {
	ID        string    `db:"id" json:"id"`
	Source    string    `db:"source" json:"source"`
	Rows      int       `db:"rows" json:"rows"`
	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SaveSession inserts or replaces a session record.
func (s *DB) SaveSession(ctx context.Context, rec SessionRecord) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sessions (id, source, rows, version, created_at, updated_at)
		VALUES (:id, :source, :rows, :version, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			rows = excluded.rows,
			version = excluded.version,
			updated_at = excluded.updated_at`, rec)
	return err
}

// GetSession fetches one session record.
func (s *DB) GetSession(ctx context.Context, id string) (SessionRecord, error) {
	var rec SessionRecord
	err := s.db.GetContext(ctx, &rec, `SELECT id, source, rows, version, created_at, updated_at FROM sessions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%w: session %s", ErrNotFound, id)
	}
	return rec, err
}

// ListSessions returns all session records, newest first.
func (s *DB) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	recs := []SessionRecord{}
	err := s.db.SelectContext(ctx, &recs, `SELECT id, source, rows, version, created_at, updated_at FROM sessions ORDER BY created_at DESC, id`)
	return recs, err
}

// DeleteSession removes a session record and both of its logs.
func (s *DB) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, q := range []string{
		`DELETE FROM cleaning_log WHERE session_id = ?`,
		`DELETE FROM history_log WHERE session_id = ?`,
		`DELETE FROM sessions WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Logs returns the log store of one session.
func (s *DB) Logs(sessionID string) history.Store {
	return &sessionLogs{db: s.db, sessionID: sessionID}
}

type sessionLogs struct {
	db        *sqlx.DB
	sessionID string
}

func (l *sessionLogs) AppendCleaning(ctx context.Context, description string, at time.Time) (model.CleaningLogEntry, error) {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.CleaningLogEntry{}, err
	}
	defer tx.Rollback()

	var seq int
	if err := tx.GetContext(ctx, &seq, `SELECT COALESCE(MAX(seq), 0) + 1 FROM cleaning_log WHERE session_id = ?`, l.sessionID); err != nil {
		return model.CleaningLogEntry{}, err
	}
	e := model.CleaningLogEntry{SequenceNumber: seq, Description: description, AppliedAt: at.UTC()}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cleaning_log (session_id, seq, description, applied_at) VALUES (?, ?, ?, ?)`,
		l.sessionID, e.SequenceNumber, e.Description, e.AppliedAt); err != nil {
		return model.CleaningLogEntry{}, err
	}
	return e, tx.Commit()
}

func (l *sessionLogs) CleaningLog(ctx context.Context) ([]model.CleaningLogEntry, error) {
	entries := []model.CleaningLogEntry{}
	err := l.db.SelectContext(ctx, &entries,
		`SELECT seq, description, applied_at FROM cleaning_log WHERE session_id = ? ORDER BY seq`, l.sessionID)
	return entries, err
}

func (l *sessionLogs) ClearCleaning(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM cleaning_log WHERE session_id = ?`, l.sessionID)
	return err
}

func (l *sessionLogs) AppendHistory(ctx context.Context, action, details string, at time.Time) (model.HistoryLogEntry, error) {
	e := model.HistoryLogEntry{Timestamp: at.UTC(), Action: action, Details: details}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO history_log (session_id, ts, action, details) VALUES (?, ?, ?, ?)`,
		l.sessionID, e.Timestamp, e.Action, e.Details)
	return e, err
}

func (l *sessionLogs) History(ctx context.Context) ([]model.HistoryLogEntry, error) {
	entries := []model.HistoryLogEntry{}
	err := l.db.SelectContext(ctx, &entries,
		`SELECT ts, action, details FROM history_log WHERE session_id = ? ORDER BY id`, l.sessionID)
	return entries, err
}

func (l *sessionLogs) ClearHistory(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM history_log WHERE session_id = ?`, l.sessionID)
	return err
}
