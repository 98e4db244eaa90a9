package session

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store. Used by tests and by tools that must
// not persist credentials to disk.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string, user json.RawMessage) error {
	if token == "" || len(user) == 0 {
		return fmt.Errorf("session requires both token and user")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = append(json.RawMessage(nil), user...)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

func (s *MemoryStore) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || len(s.user) == 0 {
		return Session{}, false
	}
	return Session{Token: s.token, User: append(json.RawMessage(nil), s.user...)}, true
}

func (s *MemoryStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}
