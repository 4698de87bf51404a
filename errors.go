// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package simpledb

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/canonical/simpledb/internal/expr"
)

var (
	// ErrEmptyResult is returned when a single value or a single row was
	// requested but the query produced no rows.
	ErrEmptyResult = errors.New("query returned no rows")

	// ErrClosed is the cause of the ConnectionError returned when a closed DB
	// is used.
	ErrClosed = errors.New("database handle is closed")

	// ErrArity is the cause of the ExecutionError returned when the number of
	// placeholders in a statement differs from the number of parameters.
	ErrArity = expr.ErrArity
)

// ConnectionError is returned when the connection to the database cannot be
// established.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to %s database: %s", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Cause returns the underlying error.
func (e *ConnectionError) Cause() error { return e.Err }

// ExecutionError is returned when the database rejects or fails to run a
// statement.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("cannot execute %q: %s", e.SQL, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Cause returns the underlying error.
func (e *ExecutionError) Cause() error { return e.Err }

// ShapeMismatchError is returned when a column value cannot be decoded as
// the requested type.
type ShapeMismatchError struct {
	Column string
	Want   string
	Value  any
	Err    error
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("cannot decode column %q as %s: got %T", e.Column, e.Want, e.Value)
}

func (e *ShapeMismatchError) Unwrap() error { return e.Err }

// Cause returns the underlying error.
func (e *ShapeMismatchError) Cause() error { return e.Err }
