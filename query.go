// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package simpledb

import (
	"context"
	"time"

	"github.com/canonical/simpledb/internal/expr"
)

// Query assembles a statement from SQL fragments and runs it. It is designed
// to be run once.
//
// Example:
//
//	title, err := db.Query(ctx).
//		Append("SELECT title").
//		Append("FROM article").
//		Append("WHERE id = ?", 1).
//		SelectString()
type Query struct {
	db  *DB
	ctx context.Context
	b   *expr.Builder
}

// Append adds a fragment of SQL, separated from the previous one by a space,
// together with the parameters for the placeholders it contains.
func (q *Query) Append(sql string, params ...any) *Query {
	q.b.Append(sql, params...)
	return q
}

// Statement returns the statement assembled so far.
func (q *Query) Statement() *Statement {
	return q.b.Build()
}

func (q *Query) run(shape Shape) (*Result, error) {
	return q.db.Exec(q.ctx, q.b.Build(), shape)
}

// Exec runs the statement and returns the number of rows affected.
func (q *Query) Exec() (int64, error) {
	res, err := q.run(ShapeAffectedCount)
	if err != nil {
		return 0, err
	}
	return res.Count(), nil
}

// Insert runs an INSERT statement and returns the id generated for the new
// row.
func (q *Query) Insert() (int64, error) {
	res, err := q.run(ShapeInsertID)
	if err != nil {
		return 0, err
	}
	return res.Count(), nil
}

// Update runs an UPDATE statement and returns the number of rows changed.
func (q *Query) Update() (int64, error) {
	return q.Exec()
}

// Delete runs a DELETE statement and returns the number of rows removed.
func (q *Query) Delete() (int64, error) {
	return q.Exec()
}

// SelectRows returns every row produced by the statement. No rows is not an
// error.
func (q *Query) SelectRows() (RowSet, error) {
	res, err := q.run(ShapeRowSet)
	if err != nil {
		return nil, err
	}
	return res.Rows(), nil
}

// SelectRow returns the first row produced by the statement. It returns
// [ErrEmptyResult] if there are none.
func (q *Query) SelectRow() (*Row, error) {
	res, err := q.run(ShapeSingleRow)
	if err != nil {
		return nil, err
	}
	return res.Row(), nil
}

// SelectString returns the first column of the first row as a string.
func (q *Query) SelectString() (string, error) {
	res, err := q.run(ShapeScalar(KindString))
	if err != nil {
		return "", err
	}
	return res.Value().(string), nil
}

// SelectInt64 returns the first column of the first row as an int64.
func (q *Query) SelectInt64() (int64, error) {
	res, err := q.run(ShapeScalar(KindInt64))
	if err != nil {
		return 0, err
	}
	return res.Value().(int64), nil
}

// SelectBool returns the first column of the first row as a bool.
func (q *Query) SelectBool() (bool, error) {
	res, err := q.run(ShapeScalar(KindBool))
	if err != nil {
		return false, err
	}
	return res.Value().(bool), nil
}

// SelectTime returns the first column of the first row as a time.Time.
func (q *Query) SelectTime() (time.Time, error) {
	res, err := q.run(ShapeScalar(KindTime))
	if err != nil {
		return time.Time{}, err
	}
	return res.Value().(time.Time), nil
}
