package editor

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session id is unknown or has expired.
type ErrSessionNotFound struct {
	ID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("editor session not found: %s", e.ID)
}

type session struct {
	editor     *Editor
	lastAccess time.Time
}

// Store keeps editor sessions in memory, keyed by uuid.
// A single mutex serialises every operation, so each session sees exactly one writer
// at a time. Sessions idle for longer than the TTL are dropped by a cleanup loop.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	now      func() time.Time

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewStore creates a store. A ttl of zero disables expiry and the cleanup loop.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		now:      time.Now,
	}

	if ttl > 0 {
		interval := max(ttl/2, time.Second)
		s.cleanupTicker = time.NewTicker(interval)
		s.cleanupStop = make(chan struct{})
		go s.cleanup()
	}
	return s
}

// Create registers a new session around e and returns its id.
func (s *Store) Create(e *Editor) uuid.UUID {
	id := uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{editor: e, lastAccess: s.now()}
	return id
}

// Do runs fn against the session's editor while holding the store lock.
func (s *Store) Do(id uuid.UUID, fn func(*Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || s.expired(sess) {
		delete(s.sessions, id)
		return &ErrSessionNotFound{ID: id}
	}
	sess.lastAccess = s.now()
	return fn(sess.editor)
}

// Delete drops a session. Deleting an unknown id is not an error.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Stop ends the cleanup loop.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		if s.cleanupTicker != nil {
			s.cleanupTicker.Stop()
			close(s.cleanupStop)
		}
	})
}

func (s *Store) expired(sess *session) bool {
	return s.ttl > 0 && s.now().Sub(sess.lastAccess) > s.ttl
}

func (s *Store) cleanup() {
	for {
		select {
		case <-s.cleanupTicker.C:
			s.evictExpired()
		case <-s.cleanupStop:
			return
		}
	}
}

func (s *Store) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
		}
	}
}
