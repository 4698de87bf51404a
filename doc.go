/*
Package simpledb is a small database access layer. A [DB] holds a single
connection to a MySQL, PostgreSQL, SQLite or dqlite database and statements
are written fragment by fragment with a [Query].

# Basics

A DB is created from a [Config] and connects the first time it is used:

	db, err := simpledb.New(simpledb.Config{
		Driver:   "mysql",
		Host:     "localhost",
		User:     "root",
		Password: "1122",
		DBName:   "simpleDb__test",
	})
	...
	defer db.Close()

A query is built by appending fragments of SQL. Each fragment carries the
parameters for the "?" placeholders it contains, so the parameters stay next to
the clause they belong to:

	n, err := db.Query(ctx).
		Append("UPDATE article").
		Append("SET title = ?", "new title").
		Append("WHERE id IN (?, ?, ?)", 1, 2, 3).
		Update()

Fragments are joined with a single space. The number of placeholders must
match the number of parameters, otherwise the statement is not sent and an
[ExecutionError] wrapping [ErrArity] is returned. Placeholders are rewritten
to the driver's style before the statement is run, e.g. "$1" for PostgreSQL.

# Results

The terminal method of a query declares the shape of the result it expects:

  - Exec, Update and Delete return the number of rows affected.
  - Insert returns the id generated for the new row.
  - SelectString, SelectInt64, SelectBool and SelectTime return the first
    column of the first row. [ErrEmptyResult] is returned if there are no rows.
  - SelectRow returns the first row as a [Row]. Other rows are ignored.
  - SelectRows returns every row as a [RowSet].

The same shapes can be passed directly to [DB.Exec] with a [Statement].

Column values are decoded according to the column type reported by the
database: integer columns become int64, boolean and BIT columns become bool,
date and time columns become time.Time (or nil for NULL), and other columns are
returned as reported by the driver with []byte turned into string.

A DB must not be used concurrently. There is no pooling, retrying or
transaction support: a failed statement is reported once and a closed DB cannot
be reopened.
*/
package simpledb
