package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState      = errors.New("invalid state: state name cannot be empty")
	ErrInvalidTransition = errors.New("invalid transition: from, to, or event cannot be empty")
	ErrInvalidEvent      = errors.New("invalid event: event name cannot be empty")
)

// NoTransitionError indicates no transition is registered for the state/event pair.
type NoTransitionError struct {
	State State
	Event Event
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.State, e.Event)
}

// TransitionRejectedError indicates every candidate transition was blocked by a guard.
type TransitionRejectedError struct {
	State State
	Event Event
}

func (e *TransitionRejectedError) Error() string {
	return fmt.Sprintf("transition from state '%s' for event '%s' was rejected by guards", e.State, e.Event)
}

func IsNoTransition(err error) bool {
	var e *NoTransitionError
	return errors.As(err, &e)
}

func IsTransitionRejected(err error) bool {
	var e *TransitionRejectedError
	return errors.As(err, &e)
}
