package study

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage keeps records in process memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]Record),
		now:     time.Now,
	}
}

func (s *MemoryStorage) Create(_ context.Context, rec Record) (Record, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now()

	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()
	return rec, nil
}

func (s *MemoryStorage) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStorage) ListByEmail(_ context.Context, email string, limit int) ([]Record, error) {
	s.mu.RLock()
	var out []Record
	for _, rec := range s.records {
		if rec.Email == email {
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}
