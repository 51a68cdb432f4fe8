package session

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// userIDKey is the session key holding the authenticated user's id.
const userIDKey = "_auth_user_id"

// Session is the data of one browser session. It is safe for concurrent
// use by the handlers of a single request.
type Session struct {
	mu       sync.Mutex
	id       string
	oldID    string
	values   map[string]any
	modified bool
}

func newSession(id string, values map[string]any) *Session {
	if values == nil {
		values = map[string]any{}
	}
	return &Session{id: id, values: values}
}

// ID returns the session id. It is empty until the session is first saved.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key. Values must be JSON-serializable.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.modified = true
}

// Delete removes key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.modified = true
	}
}

// Flush removes every value. The session is deleted from the store and
// its cookie expired when the response is written.
func (s *Session) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.values)
	s.modified = true
}

// CycleID assigns a new id on the next save and deletes the old entry,
// keeping the data. Call it whenever the privilege level changes.
func (s *Session) CycleID() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycle()
}

func (s *Session) cycle() {
	if s.oldID == "" {
		s.oldID = s.id
	}
	s.id = ""
	s.modified = true
}

// UserID returns the authenticated user's id, or "" for anonymous
// sessions.
func (s *Session) UserID() string {
	v, ok := s.Get(userIDKey)
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// SetUserID marks the session as authenticated and cycles its id.
func (s *Session) SetUserID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[userIDKey] = id
	s.cycle()
}

// snapshot returns a copy of the state needed to persist the session.
func (s *Session) snapshot() (id, oldID string, values map[string]any, modified bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.oldID, maps.Clone(s.values), s.modified
}

func (s *Session) saved(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.oldID = ""
	s.modified = false
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request's session, if the middleware ran.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}

// UserID returns the authenticated user id of the request's session, or "".
func UserID(ctx context.Context) string {
	s, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return s.UserID()
}
