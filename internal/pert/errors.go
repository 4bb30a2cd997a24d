package pert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshharrison/pertgraph/internal/graph"
)

var (
	ErrCyclicDependency = errors.New("cyclic dependency")
	ErrGraphConsistency = errors.New("graph consistency")
	ErrInvalidEstimate  = errors.New("invalid estimate")

	// ErrMissingDependency is raised while the graph is built.
	ErrMissingDependency = graph.ErrMissingDependency
)

// MissingDependencyError reports a dependency ID with no matching task.
type MissingDependencyError = graph.MissingDependencyError

// CyclicDependencyError carries one concrete cycle, closed on its first task.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(e.Cycle, " -> "))
}

func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }

// GraphConsistencyError means the graph passed cycle detection but could not
// be scheduled as a whole.
type GraphConsistencyError struct {
	Unplaced []string
	Msg      string
}

func (e *GraphConsistencyError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Unplaced) == 0 {
		return fmt.Sprintf("%s: %s", ErrGraphConsistency, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrGraphConsistency, e.Msg, strings.Join(e.Unplaced, ", "))
}

func (e *GraphConsistencyError) Unwrap() error { return ErrGraphConsistency }

// InvalidEstimateError rejects a time estimate the passes cannot use.
type InvalidEstimateError struct {
	TaskID string
	Field  string
	Value  float64
	Msg    string
}

func (e *InvalidEstimateError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: task %q: %s %s", ErrInvalidEstimate, e.TaskID, e.Field, e.Msg)
}

func (e *InvalidEstimateError) Unwrap() error { return ErrInvalidEstimate }
