package db

import (
	"context"
	"time"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/starshine-sys/griffin/common/log"
)

// LongQueryThreshold is the duration after which a query is logged as slow.
var LongQueryThreshold = 500 * time.Millisecond

// acquire obtains a connection from the pool.
// The caller must release the connection.
func (db *DB) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	db.poolMu.RLock()
	pool := db.pool
	db.poolMu.RUnlock()

	if pool == nil {
		log.Warnf("Postgresql: Not connected to %v", db.Addr())
		return nil, ErrNotConnected
	}

	return pool.Acquire(ctx)
}

// withConn runs fn with a connection from the pool, and releases it afterwards.
// No connection is held between calls.
func (db *DB) withConn(ctx context.Context, query string, fn func(context.Context, *pgxpool.Conn) error) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	conn, err := db.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	t := time.Now()
	err = fn(ctx, conn)

	if d := time.Since(t); d > LongQueryThreshold {
		log.Warnf("Query %q took %v", query, d.Round(time.Microsecond))
	}
	return err
}

// Exec executes a statement and returns its command tag.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (ct pgconn.CommandTag, err error) {
	err = db.withConn(ctx, query, func(ctx context.Context, conn *pgxpool.Conn) (err error) {
		ct, err = conn.Exec(ctx, query, args...)
		return err
	})
	return ct, err
}

// Get runs a query and scans the first row into dst.
// dst may be a struct or a scalar.
func (db *DB) Get(ctx context.Context, dst any, query string, args ...any) error {
	return db.withConn(ctx, query, func(ctx context.Context, conn *pgxpool.Conn) error {
		return pgxscan.Get(ctx, conn, dst, query, args...)
	})
}
