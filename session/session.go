// Package session tracks per-conversation state: the active dialogue context
// and the turn history. Sessions live in a bounded in-memory store and expire
// after a period of inactivity.
package session

import (
	"sync"
	"time"
)

// Turn is one resolved exchange kept in a session's history.
type Turn struct {
	Utterance string    `json:"utterance"`
	Answer    string    `json:"answer"`
	Source    string    `json:"source"`
	Language  string    `json:"language"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the mutable state of one conversation. Callers hold the lock for
// the duration of a turn; the accessors below assume it is held and do no
// locking of their own.
type Session struct {
	ID string

	mu      sync.Mutex
	context string
	history []Turn
}

// Lock acquires exclusive ownership of the session for one turn.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Context returns the active dialogue context id, or "" when none is active.
func (s *Session) Context() string { return s.context }

// SetContext replaces the active dialogue context. An empty id clears it.
func (s *Session) SetContext(id string) { s.context = id }

// Append records a resolved turn.
func (s *Session) Append(t Turn) { s.history = append(s.history, t) }

// History returns a copy of the recorded turns.
func (s *Session) History() []Turn {
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}
