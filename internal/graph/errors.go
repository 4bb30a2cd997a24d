package graph

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDependency = errors.New("missing dependency")
	ErrDuplicateTask     = errors.New("duplicate task")
)

// MissingDependencyError reports a dependency ID with no matching task.
type MissingDependencyError struct {
	TaskID       string // task that declares the dependency
	DependencyID string // the ID that could not be found
}

func (e *MissingDependencyError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: task %q depends on %q, which is not a task", ErrMissingDependency, e.TaskID, e.DependencyID)
}

func (e *MissingDependencyError) Unwrap() error { return ErrMissingDependency }

// DuplicateTaskError reports a task ID that appears more than once.
type DuplicateTaskError struct {
	TaskID string
}

func (e *DuplicateTaskError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %q", ErrDuplicateTask, e.TaskID)
}

func (e *DuplicateTaskError) Unwrap() error { return ErrDuplicateTask }
