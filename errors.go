package main

import (
	"errors"
	"fmt"
)

// ErrNotReadOnly is returned by the executor before a statement reaches the
// engine when it is not a SELECT-shaped query.
var ErrNotReadOnly = errors.New("only read-only SELECT/WITH statements are allowed")

// ExecutionError carries the statement the engine rejected together with the
// engine's own message, so callers can show the user which SQL failed.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query failed: %v\n\nSQL:\n%s", e.Err, e.SQL)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// LookupNotFoundError signals that a catalog entry referenced by display name
// does not exist. The insertion that triggered the lookup does not happen.
type LookupNotFoundError struct {
	Name string
}

func (e *LookupNotFoundError) Error() string {
	return fmt.Sprintf("pokemon %q not found in the catalog", e.Name)
}

// MatrixRebuildError wraps any failure during the type-effectiveness rebuild.
// The rebuild is transactional, so no partial matrix is ever committed.
type MatrixRebuildError struct {
	Err error
}

func (e *MatrixRebuildError) Error() string {
	return fmt.Sprintf("type effectiveness rebuild failed: %v", e.Err)
}

func (e *MatrixRebuildError) Unwrap() error {
	return e.Err
}
