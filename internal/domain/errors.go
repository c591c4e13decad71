package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// AuthErrorKind classifies sign-in failures that the login flow knows
// how to present. Anything not wrapped in an AuthError propagates
// untouched to the framework error handler.
type AuthErrorKind int

const (
	AuthErrorUnknown AuthErrorKind = iota
	AuthErrorInvalidCredentials
	AuthErrorSession
)

// AuthError is a recognized sign-in failure.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e AuthError) Error() string {
	switch e.Kind {
	case AuthErrorInvalidCredentials:
		return "invalid credentials"
	case AuthErrorSession:
		return "session establishment failed"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "authentication failed"
	}
}

func (e AuthError) Unwrap() error {
	return e.Err
}
