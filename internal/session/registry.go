package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crash-data-audit/internal/logging"
	"crash-data-audit/internal/store"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry owns the sessions served by the API. Session summaries and logs
// are persisted to db when one is given; otherwise everything stays in
// memory.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	db       *store.DB
	defaults Options
	logger   *zap.Logger
}

// NewRegistry creates sessions from defaults. db may be nil.
func NewRegistry(db *store.DB, defaults Options) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		db:       db,
		defaults: defaults,
		logger:   logging.OrNop(defaults.Logger),
	}
}

// Create starts a new empty session.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	s := r.newSession(uuid.NewString())
	if r.db != nil {
		if err := r.db.SaveSession(ctx, Record(s)); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	r.logger.Info("session created", zap.String("session_id", s.ID()))
	return s, nil
}

func (r *Registry) newSession(id string) *Session {
	opts := r.defaults
	opts.ID = id
	opts.Logs = nil
	if r.db != nil {
		opts.Logs = r.db.Logs(id)
	}
	s := New(opts)
	if r.db != nil {
		s.onChange = r.persist
	}
	return s
}

// Get returns the session with the given id. A session known to the store
// but not held in memory, such as one from before a restart, is restored
// with its logs and without a dataset.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}
	if r.db == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	rec, err := r.db.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	restored := r.newSession(rec.ID)
	restored.created = rec.CreatedAt
	restored.source = rec.Source
	restored.version = rec.Version

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	r.sessions[id] = restored
	r.logger.Info("session restored", zap.String("session_id", id), zap.Int("version", rec.Version))
	return restored, nil
}

// List returns a summary of every session, newest first.
func (r *Registry) List(ctx context.Context) ([]store.SessionRecord, error) {
	if r.db != nil {
		return r.db.ListSessions(ctx)
	}
	r.mu.RLock()
	out := make([]store.SessionRecord, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, Record(s))
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete forgets a session and its persisted logs.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	if r.db != nil {
		return r.db.DeleteSession(ctx, id)
	}
	return nil
}

func (r *Registry) persist(s *Session) {
	if err := r.db.SaveSession(context.Background(), Record(s)); err != nil {
		r.logger.Error("failed to save session", zap.String("session_id", s.ID()), zap.Error(err))
	}
}

// Record summarises s for listing.
func Record(s *Session) store.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.SessionRecord{
		ID:        s.id,
		Source:    s.source,
		Rows:      s.current.NumRows(),
		Version:   s.version,
		CreatedAt: s.created,
		UpdatedAt: s.clock(),
	}
}
