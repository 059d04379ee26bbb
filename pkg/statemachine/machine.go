package statemachine

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Machine is a running instance of a Definition. Safe for concurrent use.
type Machine struct {
	def       *Definition
	mu        sync.Mutex
	current   State
	history   []State
	observers []Observer
}

func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// History returns every state the machine has been in, oldest first.
func (m *Machine) History() []State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.history)
}

// Fire applies event. Actions run in order before the state changes.
func (m *Machine) Fire(ctx context.Context, event Event, data any) error {
	if event == "" {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	from := m.current
	t, err := m.def.match(ctx, from, event, data)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	for _, action := range t.actions {
		if err := action(ctx, from, t.to, event, data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}
	m.current = t.to
	m.history = append(m.history, t.to)
	observers := m.observers
	m.mu.Unlock()

	for _, o := range observers {
		o(from, t.to, event)
	}
	return nil
}

// MustFire is Fire for transitions the caller has already proven valid.
func (m *Machine) MustFire(ctx context.Context, event Event, data any) {
	if err := m.Fire(ctx, event, data); err != nil {
		panic("statemachine: " + err.Error())
	}
}

func (m *Machine) CanFire(ctx context.Context, event Event, data any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.def.match(ctx, m.current, event, data)
	return err == nil
}

// Reset returns the machine to the initial state and clears history.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.def.initial
	m.history = []State{m.def.initial}
}
