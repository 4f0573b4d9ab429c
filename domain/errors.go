package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrConflict will throw if the current action already matches the stored state
	ErrConflict = errors.New("your Item already exist")
	// ErrBadParamInput will throw if the given request-param is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
	// ErrForbidden will throw if the caller does not own the resource
	ErrForbidden = errors.New("you are not allowed to modify this resource")
	// ErrTransient will throw if the store or network failed in a retryable way
	ErrTransient = errors.New("temporary failure, please retry")
	// ErrCacheMiss is returned by cache layers when the key is absent
	ErrCacheMiss = errors.New("cache miss")
	// ErrTooManySubscribers is returned when the subscriber list is full
	ErrTooManySubscribers = errors.New("too many notification subscribers")
)

// Classify returns err unchanged when it already belongs to the domain taxonomy,
// and wraps anything else as ErrTransient.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrNotFound, ErrConflict, ErrBadParamInput, ErrForbidden,
		ErrTransient, ErrInternalServerError, ErrTooManySubscribers,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
