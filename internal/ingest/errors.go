package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks input that could not be turned into task records.
var ErrValidation = errors.New("invalid task input")

// ValidationError collects every problem found in one input source.
type ValidationError struct {
	Source   string // file path, set by Load
	Problems []string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}
