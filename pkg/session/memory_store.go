package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	done     chan struct{}
	once     sync.Once
}

// NewMemoryStore starts a cleanup loop when cleanupInterval > 0; stop it
// with Close.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	m := &MemoryStore{
		sessions: make(map[string]Session),
		done:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.cleanupLoop(cleanupInterval)
	}
	return m
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if s == nil || s.Token == "" {
		return ErrInvalidSession
	}
	m.mu.Lock()
	m.sessions[s.Token] = *s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.IsExpired() {
		_ = m.Delete(context.Background(), token)
		return nil, ErrSessionExpired
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) deleteExpired() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
}

func (m *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.deleteExpired()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}
