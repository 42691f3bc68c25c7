package viewstate

import (
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultIdleTTL is how long an untouched visitor session survives.
const DefaultIdleTTL = 2 * time.Hour

// Clock lets tests control session expiry.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Session pairs a visitor's State with the cookie jar used for their
// upstream calls.
type Session struct {
	ID    string
	State *State
	Jar   http.CookieJar

	lastSeen time.Time
}

// Store keeps visitor sessions in memory for the life of the process.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	clock    Clock
}

func NewStore(idleTTL time.Duration, clock Clock) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if clock == nil {
		clock = realClock{}
	}
	return &Store{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		clock:    clock,
	}
}

// Get returns the live session for id, refreshing its idle timer.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.clock.Now()
	if now.Sub(session.lastSeen) > s.idleTTL {
		delete(s.sessions, id)
		return nil, false
	}
	session.lastSeen = now
	return session, true
}

// Create starts a new session with a fresh state and cookie jar.
func (s *Store) Create() *Session {
	jar, err := cookiejar.New(nil)
	if err != nil {
		// cookiejar.New only fails on a bad public suffix list.
		log.Error().Err(err).Msg("Failed to create visitor cookie jar")
		jar = nil
	}
	session := &Session{
		ID:       uuid.New().String(),
		State:    New(),
		lastSeen: s.clock.Now(),
	}
	if jar != nil {
		session.Jar = jar
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return session
}

// Sweep drops sessions idle longer than the TTL and returns how many went.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	removed := 0
	for id, session := range s.sessions {
		if now.Sub(session.lastSeen) > s.idleTTL {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
