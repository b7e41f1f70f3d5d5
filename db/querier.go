package db

import (
	"context"
	"time"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/starshine-sys/gatekeeper/common"
)

// LongQueryThreshold is how long a query may take before it's logged as slow.
const LongQueryThreshold = time.Second

// Querier is any object that can query the database.
type Querier interface {
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
}

var _ Querier = (*DB)(nil)
var _ pgxscan.Querier = (*DB)(nil)

// Exec executes a query on the pool, logging queries that cross LongQueryThreshold.
func (db *DB) Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error) {
	t := time.Now()

	ct, err := db.Pool.Exec(ctx, query, args...)

	if time.Since(t) > LongQueryThreshold {
		common.Log.Warnf("Query %q took %v", query, time.Since(t).Round(time.Microsecond))
	}
	return ct, err
}

// Query queries the pool, logging queries that cross LongQueryThreshold.
func (db *DB) Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error) {
	t := time.Now()

	rows, err := db.Pool.Query(ctx, query, args...)

	if time.Since(t) > LongQueryThreshold {
		common.Log.Warnf("Query %q took %v", query, time.Since(t).Round(time.Microsecond))
	}
	return rows, err
}
