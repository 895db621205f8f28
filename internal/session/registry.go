// Package session implements the in-memory authenticated-session table: a
// process-wide session_id -> Session map protected by a single mutex,
// with monotonically-increasing opaque ids and last-activity expiry.
// Grounded on the register/unregister map pattern of the retrieved
// corpus's connection hub (internal/shared/ws.Hub in
// ember-in-void-ride-hail), simplified here since sessions need no
// broadcast channel of their own.
package session

import (
	"fmt"
	"sync"
	"time"
)

// Session is a live authenticated session. Authenticated is always true
// for a session that exists in the registry — unauthenticated state is
// modeled as "no session," not a flag on one.
type Session struct {
	ID            string
	UserURN       string
	Authenticated bool
	LastActivity  time.Time
}

// Registry is the process-wide session table.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	nextID   uint64
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create allocates a new session bound to userURN with a fresh
// "session_<N>" id.
func (r *Registry) Create(userURN string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s := &Session{
		ID:            fmt.Sprintf("session_%d", r.nextID),
		UserURN:       userURN,
		Authenticated: true,
		LastActivity:  time.Now(),
	}
	r.sessions[s.ID] = s
	return s
}

// Touch updates last_activity iff the session exists, and returns the
// bound user_urn.
func (r *Registry) Touch(sessionID string) (userURN string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.sessions[sessionID]
	if !exists {
		return "", false
	}
	s.LastActivity = time.Now()
	return s.UserURN, true
}

// Get returns a copy of the session, if it exists, without touching it.
func (r *Registry) Get(sessionID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.sessions[sessionID]
	if !exists {
		return Session{}, false
	}
	return *s, true
}

// Remove deletes a session; removing a session that does not exist is a
// no-op.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// PurgeExpired removes sessions whose last_activity predates now-timeout,
// or that are not flagged authenticated, and returns how many were
// removed. Called by the session-cleanup background task.
func (r *Registry) PurgeExpired(timeout time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-timeout)
	removed := 0
	for id, s := range r.sessions {
		if !s.Authenticated || s.LastActivity.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
