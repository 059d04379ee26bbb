package statemachine

import "context"

// State names a node of the machine.
type State string

// Event names a trigger that moves the machine between states.
type Event string

// Guard decides at fire time whether a transition may be taken.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Action runs before the state changes. Returning an error aborts the transition.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Observer is notified after every successful transition.
type Observer func(from, to State, event Event)

type transition struct {
	to      State
	guards  []Guard
	actions []Action
}

// Definition is an immutable transition table. One Definition can start
// any number of independent Machines.
type Definition struct {
	initial     State
	transitions map[State]map[Event][]transition
}

// Option configures a Definition.
type Option func(*Definition) error

// TransitionOption configures a single transition.
type TransitionOption func(*transition)

// Define builds a Definition starting at initial.
func Define(initial State, opts ...Option) (*Definition, error) {
	if initial == "" {
		return nil, ErrInvalidState
	}
	d := &Definition{
		initial:     initial,
		transitions: make(map[State]map[Event][]transition),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustDefine is Define that panics on error. Meant for package-level tables.
func MustDefine(initial State, opts ...Option) *Definition {
	d, err := Define(initial, opts...)
	if err != nil {
		panic("statemachine: " + err.Error())
	}
	return d
}

// WithTransition registers from --event--> to. Several transitions may share
// from/event; the first whose guards all pass wins.
func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	return func(d *Definition) error {
		if from == "" || to == "" || event == "" {
			return ErrInvalidTransition
		}
		t := transition{to: to}
		for _, opt := range opts {
			opt(&t)
		}
		if d.transitions[from] == nil {
			d.transitions[from] = make(map[Event][]transition)
		}
		d.transitions[from][event] = append(d.transitions[from][event], t)
		return nil
	}
}

func WithGuard(g Guard) TransitionOption {
	return func(t *transition) {
		if g != nil {
			t.guards = append(t.guards, g)
		}
	}
}

func WithAction(a Action) TransitionOption {
	return func(t *transition) {
		if a != nil {
			t.actions = append(t.actions, a)
		}
	}
}

// Initial returns the state every Machine starts in.
func (d *Definition) Initial() State {
	return d.initial
}

// Start creates a new Machine in the initial state.
func (d *Definition) Start(observers ...Observer) *Machine {
	return &Machine{
		def:       d,
		current:   d.initial,
		history:   []State{d.initial},
		observers: observers,
	}
}

func (d *Definition) match(ctx context.Context, from State, event Event, data any) (transition, error) {
	candidates := d.transitions[from][event]
	if len(candidates) == 0 {
		return transition{}, &NoTransitionError{State: from, Event: event}
	}
	for _, t := range candidates {
		if guardsPass(ctx, t.guards, from, event, data) {
			return t, nil
		}
	}
	return transition{}, &TransitionRejectedError{State: from, Event: event}
}

func guardsPass(ctx context.Context, guards []Guard, from State, event Event, data any) bool {
	for _, g := range guards {
		if !g(ctx, from, event, data) {
			return false
		}
	}
	return true
}
