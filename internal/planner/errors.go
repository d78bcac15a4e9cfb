package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every lookup that addresses a missing task or category.
	ErrNotFound = errors.New("not found")
	// ErrNoState is returned by a Gateway whose storage has never been written.
	ErrNoState = errors.New("no saved state")
)

// NotFoundError names the missing resource. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func taskNotFound(id string) error {
	return &NotFoundError{Kind: "task", Key: id}
}

func categoryNotFound(name string) error {
	return &NotFoundError{Kind: "category", Key: name}
}

// LoadError reports a persisted document that exists but does not have the
// expected shape.
type LoadError struct {
	Path  string // storage location
	Field string // JSON path inside the document, empty for whole-document failures
	Err   error
}

func (e *LoadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
