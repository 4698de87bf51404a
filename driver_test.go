// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package simpledb_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net/url"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// This file contains a wrapper sql.Driver over the SQLite driver which counts
// the statements run through Exec and through Query. We use the counts to
// check that statements are dispatched according to the declared shape.

// execsRun and queriesRun are indexed by the test name. The countMutex must
// be used when accessing them.
var execsRun = map[string]int{}
var queriesRun = map[string]int{}
var countMutex sync.RWMutex

const countingDriver = "sqlite3_counted"

type Driver struct {
	driver.Driver
}

type Conn struct {
	testName string
	*sqlite3.SQLiteConn
}

func (c *Conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	rows, err := c.SQLiteConn.QueryContext(ctx, query, args)
	if err == nil {
		countMutex.Lock()
		defer countMutex.Unlock()
		queriesRun[c.testName]++
	}
	return rows, err
}

func (c *Conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	res, err := c.SQLiteConn.ExecContext(ctx, query, args)
	if err == nil {
		countMutex.Lock()
		defer countMutex.Unlock()
		execsRun[c.testName]++
	}
	return res, err
}

func counts(testName string) (execs, queries int) {
	countMutex.RLock()
	defer countMutex.RUnlock()
	return execsRun[testName], queriesRun[testName]
}

const testNameTag = "testName"

// Open expects the DSN to contain the test name using the testNameTag
// attribute.
func (d *Driver) Open(name string) (driver.Conn, error) {
	var testName string
	if i := strings.Index(name, "?"); i >= 0 {
		params, err := url.ParseQuery(name[i+1:])
		if err != nil {
			return nil, err
		}
		testName = params.Get(testNameTag)
	}
	if testName == "" {
		panic("internal error: testName is not found in the db DSN")
	}

	baseConn, err := d.Driver.Open(name)
	if err != nil {
		return nil, err
	}
	if baseConn, ok := baseConn.(*sqlite3.SQLiteConn); ok {
		return &Conn{SQLiteConn: baseConn, testName: testName}, nil
	}
	panic("internal error: base driver is not SQLite")
}

func init() {
	sql.Register(countingDriver, &Driver{
		&sqlite3.SQLiteDriver{},
	})
}
