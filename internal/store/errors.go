package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that the requested record (or its namespace)
	// does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidReference reports that a parent or child id used when
	// linking does not exist, or that the link would cross threads or
	// create a cycle.
	ErrInvalidReference = errors.New("invalid reference")
)

// StoreError wraps an opaque persistence failure. Callers branch on the
// kind with errors.As and may retry; the cause is carried, never dropped.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
