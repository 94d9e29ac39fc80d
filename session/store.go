// Package session keeps the inventory table of each clerk between requests.
// A session holds at most one table, replaced as a whole on every successful
// upload and never modified in place.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/giygas/inventario-farmacia/interfaces"
	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
	"github.com/google/uuid"
)

// Compile-time checks
var (
	_ interfaces.SessionStore = (*Store)(nil)
	_ interfaces.Session      = (*Session)(nil)
)

// Session is the state of one clerk
type Session struct {
	id       string
	table    atomic.Pointer[entities.Table]
	lastSeen atomic.Int64 // unix nanoseconds
}

func newSession(id string) *Session {
	s := &Session{id: id}
	s.touch()
	return s
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Table returns the current table, nil when nothing was uploaded yet
func (s *Session) Table() *entities.Table {
	return s.table.Load()
}

// Replace swaps the whole current table
func (s *Session) Replace(table *entities.Table) {
	s.table.Store(table)
	s.touch()
}

// Clear drops the current table
func (s *Session) Clear() {
	s.table.Store(nil)
	s.touch()
}

// LastSeen returns the time of the last access
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Store is an in-memory session registry
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Get finds a session and marks it as seen
func (st *Store) Get(id string) (interfaces.Session, bool) {
	if id == "" {
		return nil, false
	}

	st.mu.RLock()
	s, exists := st.sessions[id]
	st.mu.RUnlock()

	if !exists {
		return nil, false
	}
	s.touch()
	return s, true
}

// Create registers a new session with a random id
func (st *Store) Create() interfaces.Session {
	s := newSession(uuid.NewString())

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()

	return s
}

// Sweep removes sessions idle for longer than ttl and returns how many were removed
func (st *Store) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	removed := 0

	st.mu.Lock()
	defer st.mu.Unlock()

	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}

	return removed
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
