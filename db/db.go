package db

import (
	"context"
	"database/sql"
	"embed"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/config"

	migrate "github.com/rubenv/sql-migrate"

	// pgx driver for migrations
	_ "github.com/jackc/pgx/v4/stdlib"
)

// ErrNotConnected is returned by all queries if the connection pool hasn't been created.
const ErrNotConnected = errors.Sentinel("not connected to the database")

// commandTimeout is the maximum time a single query may take.
const commandTimeout = 60 * time.Second

// sq is a squirrel builder for postgres
var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// DB is a thin wrapper around a Postgres connection pool.
// The zero value is not connected; all queries return ErrNotConnected until Connect succeeds.
type DB struct {
	conf config.PostgresConfig

	pool   *pgxpool.Pool
	poolMu sync.RWMutex

	// NoMigrate disables running migrations in Connect.
	NoMigrate bool
}

// New returns a new, unconnected DB.
func New(conf config.PostgresConfig) *DB {
	return &DB{conf: conf}
}

// Addr returns the host:port the database connects to.
func (db *DB) Addr() string {
	return net.JoinHostPort(db.conf.Host, strconv.Itoa(db.conf.Port))
}

// DSN returns the connection string for this database.
// The configured schema is set as the search path for every connection.
func (db *DB) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   db.Addr(),
		Path:   "/" + db.conf.Database,
	}
	if db.conf.User != "" {
		u.User = url.UserPassword(db.conf.User, db.conf.Password)
	}
	if db.conf.Schema != "" {
		u.RawQuery = url.Values{"search_path": {db.conf.Schema}}.Encode()
	}
	return u.String()
}

// Connect runs migrations and creates the connection pool.
// Calling Connect on a connected DB does nothing.
func (db *DB) Connect(ctx context.Context) error {
	db.poolMu.Lock()
	defer db.poolMu.Unlock()

	if db.pool != nil {
		return nil
	}

	if !db.NoMigrate {
		err := RunMigrations(db.DSN())
		if err != nil {
			return errors.Wrap(err, "running migrations")
		}
	}

	pool, err := pgxpool.Connect(ctx, db.DSN())
	if err != nil {
		return errors.Wrap(err, "connecting to postgres")
	}
	db.pool = pool

	log.Infof("Postgresql: Connected to %v", db.Addr())
	return nil
}

// Connected returns true if the pool has been created.
func (db *DB) Connected() bool {
	db.poolMu.RLock()
	defer db.poolMu.RUnlock()
	return db.pool != nil
}

// Close closes the pool. The DB can be connected again afterwards.
func (db *DB) Close() {
	db.poolMu.Lock()
	defer db.poolMu.Unlock()

	if db.pool == nil {
		return
	}

	db.pool.Close()
	db.pool = nil
	log.Warnf("Postgresql: Disconnected from %v", db.Addr())
}

//go:embed migrations
var fs embed.FS

// RunMigrations runs all of the migrations in migrations/.
func RunMigrations(dsn string) (err error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}

	// we close this because we end up using pgx's native driver for all other queries.
	defer db.Close()

	err = db.Ping()
	if err != nil {
		return errors.Wrap(err, "pinging database")
	}

	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: fs,
		Root:       "migrations",
	}

	migrate.SetTable("migration_history")

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}

	if n != 0 {
		log.Debugf("Performed %v migrations!", n)
	}
	return nil
}
