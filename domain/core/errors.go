package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: validation run", ErrNotFound)

	// Pipeline errors
	ErrPreconditionFailed = errors.New("reaction check precondition failed")
	ErrMissingCredential  = errors.New("language model credential is not configured")
)

// IsNotFoundError reports whether err is any not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
