package account

import (
	"errors"
	"fmt"
)

var (
	ErrNotSignedIn = errors.New("account: not signed in")
	ErrBusy        = errors.New("account: password update already in progress")
)

// ErrorKind classifies why a password update attempt ended without success.
type ErrorKind int

const (
	KindMismatch ErrorKind = iota + 1
	KindTooShort
	KindRemoteFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindMismatch:
		return "mismatch"
	case KindTooShort:
		return "too_short"
	case KindRemoteFailure:
		return "remote_failure"
	default:
		return "unknown"
	}
}

// FlowError is the error returned for a rejected or failed attempt.
type FlowError struct {
	Kind ErrorKind
	Err  error
}

func (e *FlowError) Error() string {
	if e.Err == nil {
		return "account: " + e.Kind.String()
	}
	return fmt.Sprintf("account: %s: %v", e.Kind, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or 0.
func KindOf(err error) ErrorKind {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
