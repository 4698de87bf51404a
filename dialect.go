// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package simpledb

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/canonical/go-dqlite/client"
	dqlite "github.com/canonical/go-dqlite/driver"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// dialect knows how to turn a Config into the database/sql driver name and
// data source name.
type dialect struct {
	driverName  string
	defaultPort int
	dsn         func(cfg *Config, port int) (string, error)
}

var dialects = map[string]dialect{
	"mysql":    {driverName: "mysql", defaultPort: 3306, dsn: mysqlDSN},
	"postgres": {driverName: "postgres", defaultPort: 5432, dsn: postgresDSN},
	"sqlite3":  {driverName: "sqlite3", dsn: sqliteDSN},
	"dqlite":   {defaultPort: 9001, dsn: dqliteDSN},
}

func mysqlDSN(cfg *Config, port int) (string, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.DBName
	// DATETIME and TIMESTAMP columns are scanned as time.Time.
	mc.ParseTime = true
	// Times are read in the client's zone unless a "loc" param names another.
	mc.Loc = time.Local
	for k, v := range cfg.Params {
		if k == "loc" {
			loc, err := time.LoadLocation(v)
			if err != nil {
				return "", errors.Wrapf(err, "cannot load location %q", v)
			}
			mc.Loc = loc
			continue
		}
		if mc.Params == nil {
			mc.Params = map[string]string{}
		}
		mc.Params[k] = v
	}
	return mc.FormatDSN(), nil
}

func postgresDSN(cfg *Config, port int) (string, error) {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:   "/" + cfg.DBName,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	q := url.Values{}
	for k, v := range cfg.Params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func sqliteDSN(cfg *Config, _ int) (string, error) {
	if len(cfg.Params) == 0 {
		return cfg.DBName, nil
	}
	keys := make([]string, 0, len(cfg.Params))
	for k := range cfg.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	params := make([]string, len(keys))
	for i, k := range keys {
		params[i] = url.QueryEscape(k) + "=" + url.QueryEscape(cfg.Params[k])
	}
	return cfg.DBName + "?" + strings.Join(params, "&"), nil
}

func dqliteDSN(cfg *Config, _ int) (string, error) {
	return cfg.DBName, nil
}

// dqliteCount is used to give every registered dqlite driver a unique name.
var dqliteCount int64

// registerDqlite registers a dqlite driver that finds the cluster through
// the node at address. database/sql does not allow a driver name to be
// registered twice so every call uses a new name.
func registerDqlite(ctx context.Context, address string) (string, error) {
	store := client.NewInmemNodeStore()
	if err := store.Set(ctx, []client.NodeInfo{{Address: address}}); err != nil {
		return "", errors.Wrap(err, "cannot set dqlite node store")
	}
	drv, err := dqlite.New(store)
	if err != nil {
		return "", errors.Wrap(err, "cannot create dqlite driver")
	}
	name := fmt.Sprintf("dqlite-%d", atomic.AddInt64(&dqliteCount, 1))
	sql.Register(name, drv)
	sqlx.BindDriver(name, sqlx.QUESTION)
	return name, nil
}

// resolve returns the driver name and data source name for cfg. sqlDriver,
// if not empty, replaces the dialect's driver name.
func resolve(ctx context.Context, cfg *Config, sqlDriver string) (driverName, dsn string, err error) {
	d, ok := dialects[cfg.Driver]
	if !ok {
		return "", "", errors.Errorf("unknown driver %q", cfg.Driver)
	}
	port := cfg.Port
	if port == 0 {
		port = d.defaultPort
	}
	if dsn, err = d.dsn(cfg, port); err != nil {
		return "", "", err
	}
	switch {
	case sqlDriver != "":
		driverName = sqlDriver
	case cfg.Driver == "dqlite":
		driverName, err = registerDqlite(ctx, net.JoinHostPort(cfg.Host, strconv.Itoa(port)))
		if err != nil {
			return "", "", err
		}
	default:
		driverName = d.driverName
	}
	return driverName, dsn, nil
}

// bindType returns the placeholder style used by the dialect. Statements are
// always written with "?" and rebound to this style before being run.
func bindType(cfg *Config, driverName string) int {
	if d, ok := dialects[cfg.Driver]; ok && d.driverName != "" {
		return sqlx.BindType(d.driverName)
	}
	return sqlx.BindType(driverName)
}
