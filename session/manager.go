package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Manager is a bounded, TTL-evicting session store. When the store is full
// the least recently used session is evicted; idle sessions expire after the
// configured TTL. Either way the next request with that id starts fresh.
type Manager struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
}

// NewManager builds a store holding at most capacity sessions, each expiring
// after ttl of inactivity.
func NewManager(capacity int, ttl time.Duration) *Manager {
	return &Manager{
		cache: expirable.NewLRU[string, *Session](capacity, nil, ttl),
	}
}

// GetOrCreate returns the session for id, creating it on first use.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.cache.Get(id); ok {
		return s
	}
	s := &Session{ID: id}
	m.cache.Add(id, s)
	return s
}

// Get returns the session for id without creating one.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Get(id)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Len()
}
