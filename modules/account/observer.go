package account

import (
	"context"
	"sync"

	"github.com/dmitrymomot/studylog/svc/identity"
)

// Observer mirrors the principal of one browser session while active.
type Observer struct {
	source    identity.StateSource
	sessionID string

	mu        sync.RWMutex
	principal *identity.Principal
	changes   chan struct{}
}

func NewObserver(source identity.StateSource, sessionID string) *Observer {
	return &Observer{
		source:    source,
		sessionID: sessionID,
		changes:   make(chan struct{}, 1),
	}
}

// Activate subscribes to auth state changes. The returned release is
// idempotent; callers defer it.
func (o *Observer) Activate(ctx context.Context) (release func()) {
	return o.source.OnAuthStateChanged(ctx, o.sessionID, o.set)
}

// Principal returns the last principal seen, nil when signed out.
func (o *Observer) Principal() *identity.Principal {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.principal
}

// Changes receives after every update. Bursts coalesce into one signal.
func (o *Observer) Changes() <-chan struct{} {
	return o.changes
}

func (o *Observer) set(p *identity.Principal) {
	o.mu.Lock()
	o.principal = p
	o.mu.Unlock()

	select {
	case o.changes <- struct{}{}:
	default:
	}
}

// Observe activates an observer for sessionID, runs fn and releases the
// subscription however fn returns.
func Observe(ctx context.Context, source identity.StateSource, sessionID string, fn func(*Observer) error) error {
	o := NewObserver(source, sessionID)
	release := o.Activate(ctx)
	defer release()
	return fn(o)
}
