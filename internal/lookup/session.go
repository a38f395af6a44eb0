package lookup

import (
	"context"
	"sync"
	"time"
)

// Session holds the search results shown to one editor. Searches are not
// cancelled when a newer one starts; instead each is numbered and only the
// most recently issued search may replace the shown results.
type Session struct {
	resolver *Resolver

	mu      sync.Mutex
	issued  uint64
	results []string
	err     error
}

// NewSession binds a session to r.
func NewSession(r *Resolver) *Session {
	return &Session{resolver: r}
}

// Search runs query and returns its results plus whether they became the
// session's current results. A stale response reports false and leaves the
// session untouched.
func (s *Session) Search(ctx context.Context, query string) ([]string, bool, error) {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	results, err := s.resolver.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.issued {
		return results, false, err
	}
	s.results = results
	s.err = err
	return results, true, err
}

// Results returns the currently shown results and the error of the search
// that produced them.
func (s *Session) Results() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.results...), s.err
}

// Clear drops the shown results.
func (s *Session) Clear() {
	s.mu.Lock()
	s.results = nil
	s.err = nil
	s.mu.Unlock()
}

const (
	// DefaultMaxSessions caps the sessions kept at once.
	DefaultMaxSessions = 1024
	// DefaultSessionTTL is how long an unused session is kept.
	DefaultSessionTTL = 15 * time.Minute
)

// Sessions keys search sessions by an opaque client id. Sessions idle for
// longer than the TTL are evicted on the next Get, and when the cap is
// reached the least recently used one is evicted.
type Sessions struct {
	resolver *Resolver
	max      int
	ttl      time.Duration
	now      func() time.Time

	mu   sync.Mutex
	byID map[string]*sessionEntry
}

type sessionEntry struct {
	sess     *Session
	lastUsed time.Time
}

// SessionsOption configures Sessions.
type SessionsOption func(*Sessions)

// WithMaxSessions caps the number of live sessions. n <= 0 keeps the default.
func WithMaxSessions(n int) SessionsOption {
	return func(s *Sessions) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithSessionTTL sets the idle time after which a session is evicted.
// d <= 0 keeps the default.
func WithSessionTTL(d time.Duration) SessionsOption {
	return func(s *Sessions) {
		if d > 0 {
			s.ttl = d
		}
	}
}

func withClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) { s.now = now }
}

func NewSessions(r *Resolver, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		resolver: r,
		max:      DefaultMaxSessions,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		byID:     map[string]*sessionEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the session for id, creating it on first use.
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.byID[id]; ok && now.Sub(e.lastUsed) <= s.ttl {
		e.lastUsed = now
		return e.sess
	}
	s.evictLocked(now)
	e := &sessionEntry{sess: NewSession(s.resolver), lastUsed: now}
	s.byID[id] = e
	return e.sess
}

// evictLocked drops expired sessions, then the least recently used ones
// until there is room for one more.
func (s *Sessions) evictLocked(now time.Time) {
	for id, e := range s.byID {
		if now.Sub(e.lastUsed) > s.ttl {
			delete(s.byID, id)
		}
	}
	for len(s.byID) >= s.max {
		var (
			oldestID string
			oldest   time.Time
			found    bool
		)
		for id, e := range s.byID {
			if !found || e.lastUsed.Before(oldest) {
				oldestID, oldest, found = id, e.lastUsed, true
			}
		}
		delete(s.byID, oldestID)
	}
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Drop forgets the session for id.
func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}
