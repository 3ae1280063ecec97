package plans

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrPlanNotFound  = errors.New("plan not found")
	ErrAlreadyExists = errors.New("plan already exists")
)

// ValidationError indica qué campo rompe una regla del plan.
// errors.Is(err, ErrInvalidInput) es true para cualquier ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
