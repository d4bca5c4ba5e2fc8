// Package session keeps per-login in-memory workspaces.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/transcribe-dashboard/internal/service/blog"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/workspace"
)

// State is everything bound to one authenticated session.
type State struct {
	ID        string
	AccountID uuid.UUID
	CreatedAt time.Time
	Workspace *workspace.Store
	Blog      *blog.Store
}

// Factory builds fresh stores for a new session.
type Factory func(sessionID string) (*workspace.Store, *blog.Store)

// Registry maps session ids to their state. Safe for concurrent use.
type Registry struct {
	factory Factory
	now     func() time.Time
	log     *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*State
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory, logger *slog.Logger) *Registry {
	return &Registry{
		factory:  factory,
		now:      time.Now,
		log:      logger.With("service", "session"),
		sessions: make(map[string]*State),
	}
}

// Open starts a new session for the account.
func (r *Registry) Open(accountID uuid.UUID) *State {
	id := uuid.NewString()
	ws, bs := r.factory(id)
	st := &State{
		ID:        id,
		AccountID: accountID,
		CreatedAt: r.now(),
		Workspace: ws,
		Blog:      bs,
	}

	r.mu.Lock()
	r.sessions[id] = st
	r.mu.Unlock()

	r.log.Info("session opened", slog.String("session_id", id), slog.String("account_id", accountID.String()))
	return st
}

// Get returns the live session with the given id.
func (r *Registry) Get(id string) (*State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.sessions[id]
	return st, ok
}

// Close ends a session. Reports whether it existed.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		r.log.Info("session closed", slog.String("session_id", id))
	}
	return ok
}

// Prune closes sessions older than maxAge and returns how many were removed.
func (r *Registry) Prune(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)

	r.mu.Lock()
	removed := 0
	for id, st := range r.sessions {
		if st.CreatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.log.Info("sessions pruned", slog.Int("count", removed))
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RunJanitor prunes expired sessions every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Prune(maxAge)
		}
	}
}
