package identity

import "errors"

var (
	ErrInvalidCredentials  = errors.New("identity: invalid email or password")
	ErrUserMismatch        = errors.New("identity: credential does not belong to the signed-in user")
	ErrRequiresRecentLogin = errors.New("identity: this operation requires a recent sign-in")
	ErrWeakPassword        = errors.New("identity: password is too weak")
	ErrInvalidEmail        = errors.New("identity: invalid email")
	ErrEmailTaken          = errors.New("identity: email already registered")
	ErrUserNotFound        = errors.New("identity: user not found")
	ErrNoPrincipal         = errors.New("identity: no signed-in user")
	ErrEmptySessionID      = errors.New("identity: empty session id")
)
