// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package simpledb

import (
	"context"
	"runtime"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/canonical/simpledb/internal/decode"
	"github.com/canonical/simpledb/internal/expr"
)

// Statement is the assembled SQL text and its positional parameters.
type Statement = expr.Statement

// Row is a decoded result row. Columns are kept in the order reported by the
// database.
type Row = decode.Row

// RowSet holds every decoded row of a result.
type RowSet = decode.RowSet

type state int

const (
	unopened state = iota
	open
	closed
)

// DB is a handle holding at most one connection to a database. The
// connection is established on first use and kept until Close is called.
// A closed DB cannot be reopened.
//
// A DB must not be used by multiple goroutines at the same time.
type DB struct {
	cfg       Config
	sqlDriver string
	logger    *zap.Logger

	state state
	// sqldb and conn are set while the DB is open.
	sqldb    *sqlx.DB
	conn     *sqlx.Conn
	bindType int
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger used by the DB. The default logger discards
// everything.
func WithLogger(logger *zap.Logger) Option {
	return func(db *DB) {
		db.logger = logger
	}
}

// WithSQLDriver makes the DB open its connection with the named
// database/sql driver instead of the default driver of the configured
// dialect. The driver must understand the dialect's data source name.
func WithSQLDriver(name string) Option {
	return func(db *DB) {
		db.sqlDriver = name
	}
}

// New returns a DB for the configured database. It does not connect.
func New(cfg Config, opts ...Option) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db := &DB{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(db)
	}
	db.logger = db.logger.With(zap.String("driver", cfg.Driver), zap.String("dbname", cfg.DBName))
	// Release the connection of a DB that is garbage collected without
	// being closed.
	runtime.SetFinalizer(db, func(db *DB) { db.Close() })
	return db, nil
}

// MustNew is the same as [New] except that it panics on error.
func MustNew(cfg Config, opts ...Option) *DB {
	db, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// Connect establishes the connection if it is not already open. It is
// called before every statement is run so there is no need to call it
// directly.
func (db *DB) Connect(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return db.ensureOpen(ctx)
}

func (db *DB) ensureOpen(ctx context.Context) error {
	switch db.state {
	case open:
		return nil
	case closed:
		return &ConnectionError{Driver: db.cfg.Driver, Err: ErrClosed}
	}

	driverName, dsn, err := resolve(ctx, &db.cfg, db.sqlDriver)
	if err != nil {
		return &ConnectionError{Driver: db.cfg.Driver, Err: err}
	}
	sqldb, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return &ConnectionError{Driver: db.cfg.Driver, Err: err}
	}
	sqldb.SetMaxOpenConns(1)
	conn, err := sqldb.Connx(ctx)
	if err != nil {
		sqldb.Close()
		return &ConnectionError{Driver: db.cfg.Driver, Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		sqldb.Close()
		return &ConnectionError{Driver: db.cfg.Driver, Err: err}
	}

	db.sqldb = sqldb
	db.conn = conn
	db.bindType = bindType(&db.cfg, driverName)
	db.state = open
	db.logger.Info("connection opened", zap.String("host", db.cfg.Host))
	return nil
}

// Close releases the connection. Closing a DB that was never opened or is
// already closed does nothing.
func (db *DB) Close() error {
	if db.state != open {
		db.state = closed
		return nil
	}
	db.state = closed
	err := db.conn.Close()
	if cerr := db.sqldb.Close(); err == nil {
		err = cerr
	}
	db.conn = nil
	db.sqldb = nil
	db.logger.Info("connection closed")
	return err
}

// Query starts a new query on the database. Fragments are added with
// [Query.Append] and the query is run by one of its terminal methods.
func (db *DB) Query(ctx context.Context) *Query {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Query{db: db, ctx: ctx, b: expr.NewBuilder()}
}

// Run runs a single statement that returns no rows, such as DDL, and
// returns the number of rows affected.
func (db *DB) Run(ctx context.Context, sql string, params ...any) (int64, error) {
	return db.Query(ctx).Append(sql, params...).Exec()
}
