package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/datamaplabs/lineagraph/pkg/lineage"
)

// Session holds one uploaded graph between requests. Sessions are kept in
// memory only; graph persistence belongs to the catalog that produced the
// payload, not to this service.
type Session struct {
	ID        string
	Graph     *lineage.Graph
	Report    *lineage.ValidationReport
	Inferred  []lineage.Edge
	GraphHash string
	CreatedAt time.Time

	expiresAt time.Time
}

// SessionStore is an in-memory session registry with TTL eviction.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionStore creates a store whose sessions expire after ttl of
// inactivity. A background janitor evicts expired sessions.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Put registers a session under a fresh UUID and returns it.
func (s *SessionStore) Put(sess *Session) *Session {
	now := time.Now()
	sess.ID = uuid.NewString()
	sess.CreatedAt = now
	sess.expiresAt = now.Add(s.ttl)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session and refreshes its expiry. The second return
// value is false when the session is unknown or already expired.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.expiresAt = time.Now().Add(s.ttl)
	return sess, true
}

// Delete removes a session. Removing an unknown ID is not an error.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the janitor.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionStore) janitor() {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, sess := range s.sessions {
				if now.After(sess.expiresAt) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
