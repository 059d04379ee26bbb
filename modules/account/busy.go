package account

import (
	"sync"

	"github.com/google/uuid"
)

// busyFlags marks principals with an update in flight.
type busyFlags struct {
	mu  sync.Mutex
	set map[uuid.UUID]struct{}
}

func newBusyFlags() *busyFlags {
	return &busyFlags{set: make(map[uuid.UUID]struct{})}
}

// acquire reports false when id is already busy.
func (b *busyFlags) acquire(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.set[id]; ok {
		return false
	}
	b.set[id] = struct{}{}
	return true
}

func (b *busyFlags) release(id uuid.UUID) {
	b.mu.Lock()
	delete(b.set, id)
	b.mu.Unlock()
}

func (b *busyFlags) isBusy(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.set[id]
	return ok
}
