// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package simpledb

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/canonical/simpledb/internal/decode"
)

// ScalarKind is the Go type a single value result is decoded to.
type ScalarKind = decode.Kind

const (
	KindString = decode.String
	KindInt64  = decode.Int64
	KindBool   = decode.Bool
	KindTime   = decode.Time
)

type shapeKind int

const (
	affectedCount shapeKind = iota + 1
	insertID
	scalar
	singleRow
	rowSet
)

// Shape is the result a caller expects from a statement. It decides how the
// statement is run: AffectedCount and InsertID statements are executed, the
// others are queried.
type Shape struct {
	kind   shapeKind
	scalar ScalarKind
}

var (
	// ShapeAffectedCount returns the number of rows changed.
	ShapeAffectedCount = Shape{kind: affectedCount}
	// ShapeInsertID returns the id generated for the inserted row.
	ShapeInsertID = Shape{kind: insertID}
	// ShapeSingleRow returns the first row. Other rows are ignored.
	ShapeSingleRow = Shape{kind: singleRow}
	// ShapeRowSet returns every row.
	ShapeRowSet = Shape{kind: rowSet}
)

// ShapeScalar returns the first column of the single row produced, decoded
// as kind.
func ShapeScalar(kind ScalarKind) Shape {
	return Shape{kind: scalar, scalar: kind}
}

func (s Shape) mutating() bool {
	return s.kind == affectedCount || s.kind == insertID
}

func (s Shape) String() string {
	switch s.kind {
	case affectedCount:
		return "affected count"
	case insertID:
		return "insert id"
	case scalar:
		return "scalar " + s.scalar.String()
	case singleRow:
		return "single row"
	case rowSet:
		return "row set"
	}
	return "invalid shape"
}

// Result is the outcome of running a statement. Which accessor is meaningful
// depends on the Shape the statement was run with.
type Result struct {
	shape Shape
	count int64
	value any
	row   *Row
	rows  RowSet
}

// Count returns the affected row count or the inserted id.
func (r *Result) Count() int64 { return r.count }

// Value returns the decoded scalar. Its dynamic type is string, int64, bool
// or time.Time depending on the ScalarKind.
func (r *Result) Value() any { return r.value }

// Row returns the decoded row.
func (r *Result) Row() *Row { return r.row }

// Rows returns the decoded rows.
func (r *Result) Rows() RowSet { return r.rows }

// Exec runs the statement on the database and shapes the reply as declared.
// Parameters are bound to the "?" placeholders in order.
func (db *DB) Exec(ctx context.Context, stmt *Statement, shape Shape) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if shape.kind == 0 {
		return nil, errors.New("cannot execute statement: invalid shape")
	}
	if err := db.ensureOpen(ctx); err != nil {
		return nil, err
	}
	if err := stmt.CheckArity(); err != nil {
		return nil, db.executionError(stmt, err)
	}
	if db.cfg.DevMode {
		db.logger.Debug("running statement",
			zap.String("sql", stmt.SQL),
			zap.Int("params", len(stmt.Params)),
			zap.Stringer("shape", shape),
		)
	}
	query := stmt.SQL
	if db.bindType == sqlx.DOLLAR {
		var err error
		if query, err = stmt.Dollar(); err != nil {
			return nil, db.executionError(stmt, err)
		}
	}

	if shape.mutating() {
		res, err := db.conn.ExecContext(ctx, query, stmt.Params...)
		if err != nil {
			return nil, db.executionError(stmt, err)
		}
		var n int64
		if shape.kind == insertID {
			n, err = res.LastInsertId()
		} else {
			n, err = res.RowsAffected()
		}
		if err != nil {
			return nil, db.executionError(stmt, err)
		}
		return &Result{shape: shape, count: n}, nil
	}

	rows, err := db.conn.QueryContext(ctx, query, stmt.Params...)
	if err != nil {
		return nil, db.executionError(stmt, err)
	}
	result, err := db.decodeRows(stmt, shape, rows)
	if cerr := rows.Close(); err == nil && cerr != nil {
		err = db.executionError(stmt, cerr)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (db *DB) decodeRows(stmt *Statement, shape Shape, rows *sql.Rows) (*Result, error) {
	result := &Result{shape: shape}
	switch shape.kind {
	case scalar:
		col, v, ok, err := decode.Scalar(rows)
		if err != nil {
			return nil, db.decodeError(stmt, err)
		}
		if !ok {
			return nil, ErrEmptyResult
		}
		result.value, err = decode.Convert(shape.scalar, v)
		if err != nil {
			return nil, &ShapeMismatchError{Column: col.Name, Want: shape.scalar.String(), Value: v, Err: err}
		}
	case singleRow:
		row, ok, err := decode.First(rows)
		if err != nil {
			return nil, db.decodeError(stmt, err)
		}
		if !ok {
			return nil, ErrEmptyResult
		}
		result.row = row
	case rowSet:
		rs, err := decode.All(rows)
		if err != nil {
			return nil, db.decodeError(stmt, err)
		}
		result.rows = rs
	}
	return result, nil
}

// decodeError reports failures of the rules as a ShapeMismatchError and
// anything else as a failure of the statement.
func (db *DB) decodeError(stmt *Statement, err error) error {
	var colErr *decode.ColumnError
	if errors.As(err, &colErr) {
		mismatch := &ShapeMismatchError{Column: colErr.Column, Err: colErr.Err}
		var convErr *decode.ConversionError
		if errors.As(colErr.Err, &convErr) {
			mismatch.Want = convErr.Want.String()
			mismatch.Value = convErr.Value
		}
		return mismatch
	}
	return db.executionError(stmt, err)
}

func (db *DB) executionError(stmt *Statement, err error) error {
	if db.cfg.DevMode {
		db.logger.Error("statement failed", zap.String("sql", stmt.SQL), zap.Error(err))
	}
	return &ExecutionError{SQL: stmt.SQL, Err: err}
}

