package session

import (
	"sync"
	"time"
)

// Store is the process-wide map of live calls keyed by call control id.
// Operations on distinct ids never contend on a shared lock.
type Store struct {
	sessions sync.Map // string -> *Session
	now      func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the session for id, if any.
func (s *Store) Get(id string) (*Session, bool) {
	v, ok := s.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Create returns the session for id, creating it if needed. An existing
// session is returned unchanged with created=false; its history is kept.
func (s *Store) Create(id string) (*Session, bool) {
	if existing, ok := s.sessions.Load(id); ok {
		return existing.(*Session), false
	}
	candidate := newSession(id, s.now)
	actual, loaded := s.sessions.LoadOrStore(id, candidate)
	return actual.(*Session), !loaded
}

// Remove deletes the session for id and marks it ended. It reports whether a
// session was present.
func (s *Store) Remove(id string) bool {
	v, ok := s.sessions.LoadAndDelete(id)
	if !ok {
		return false
	}
	v.(*Session).end()
	return true
}

// Discard removes sess only if it is still the session stored under its id.
// It is used to roll back a creation whose setup failed.
func (s *Store) Discard(sess *Session) bool {
	if !s.sessions.CompareAndDelete(sess.ID(), sess) {
		return false
	}
	sess.end()
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	n := 0
	s.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Range calls fn for each live session until fn returns false.
func (s *Store) Range(fn func(*Session) bool) {
	s.sessions.Range(func(_, v any) bool {
		return fn(v.(*Session))
	})
}

// EvictIdle removes every session idle for longer than timeout and returns
// the evicted ids. Sessions with a turn or setup in flight are kept.
func (s *Store) EvictIdle(timeout time.Duration) []string {
	cutoff := s.now().Add(-timeout)
	var evicted []string
	s.Range(func(sess *Session) bool {
		if sess.endIfIdle(cutoff) {
			s.sessions.CompareAndDelete(sess.ID(), sess)
			evicted = append(evicted, sess.ID())
		}
		return true
	})
	return evicted
}
