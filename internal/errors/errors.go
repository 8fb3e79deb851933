package errors

import (
	"errors"
	"fmt"
)

// Common error types for the identity bridge
var (
	// Authentication errors
	ErrInvalidAssertion = errors.New("invalid identity assertion")
	ErrUnauthenticated  = errors.New("unauthenticated")

	// Secondary store errors
	ErrSync    = errors.New("profile sync failed")
	ErrSession = errors.New("could not establish storage session")

	// Task errors
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")

	// Upstream inference errors
	ErrPrediction = errors.New("prediction failed")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Join wraps a sentinel so that both the sentinel and the cause match errors.Is
func Join(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
