package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLocationNotFound is returned by geocoders when a lookup has no result.
	ErrLocationNotFound = errors.New("location not found")

	// ErrHistoryEntryNotFound is returned when a history id does not exist.
	ErrHistoryEntryNotFound = errors.New("history entry not found")
)

// FieldProblem describes one rejected input field.
type FieldProblem struct {
	Field   string
	Message string
}

// ValidationError rejects a request before any external call is made.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Add(field, msg string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Message: msg})
}

// Err returns nil when no problem was recorded.
func (e *ValidationError) Err() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ResolutionError aborts a calculation because a city could not be geocoded.
type ResolutionError struct {
	City string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve city %q: %v", e.City, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
