package identity

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type memoryUser struct {
	user User
	hash []byte
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*memoryUser
	byEmail map[string]uuid.UUID
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID:    make(map[uuid.UUID]*memoryUser),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStorage) CreateUser(_ context.Context, u User, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	s.byID[u.ID] = &memoryUser{user: u, hash: slices.Clone(hash)}
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (User, []byte, error) {
	s.mu.RLock()
	id, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return User{}, nil, ErrUserNotFound
	}
	return s.GetUserByID(ctx, id)
}

func (s *MemoryStorage) GetUserByID(_ context.Context, id uuid.UUID) (User, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mu, ok := s.byID[id]
	if !ok {
		return User{}, nil, ErrUserNotFound
	}
	return mu.user, slices.Clone(mu.hash), nil
}

func (s *MemoryStorage) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	mu.hash = slices.Clone(hash)
	return nil
}

// MemoryStateStore is an in-process StateStore.
type MemoryStateStore struct {
	mu       sync.RWMutex
	bindings map[string]uuid.UUID
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{bindings: make(map[string]uuid.UUID)}
}

func (s *MemoryStateStore) Bind(_ context.Context, sessionID string, userID uuid.UUID) error {
	s.mu.Lock()
	s.bindings[sessionID] = userID
	s.mu.Unlock()
	return nil
}

func (s *MemoryStateStore) Lookup(_ context.Context, sessionID string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bindings[sessionID], nil
}

func (s *MemoryStateStore) Unbind(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.bindings, sessionID)
	s.mu.Unlock()
	return nil
}
