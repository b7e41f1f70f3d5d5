package db

import (
	"context"
	"database/sql"
	"embed"
	"os"
	"time"

	"emperror.dev/errors"
	"github.com/Masterminds/squirrel"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/starshine-sys/gatekeeper/common"
	"github.com/starshine-sys/gatekeeper/db/stats"

	migrate "github.com/rubenv/sql-migrate"

	// pgx driver for migrations
	_ "github.com/jackc/pgx/v4/stdlib"
)

// sq is a squirrel builder for postgres
var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type DB struct {
	*pgxpool.Pool

	Hub   *sentry.Hub
	Stats *stats.Client

	configCache *ttlcache.Cache
}

func New(postgres string, hub *sentry.Hub) (*DB, error) {
	err := RunMigrations(postgres)
	if err != nil {
		return nil, errors.Wrap(err, "running migrations")
	}

	pool, err := pgxpool.Connect(context.Background(), postgres)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}

	cache := ttlcache.NewCache()
	cache.SetTTL(time.Minute)
	cache.SkipTTLExtensionOnHit(true)

	db := &DB{
		Pool:        pool,
		Hub:         hub,
		configCache: cache,
	}

	if os.Getenv("INFLUX_URL") != "" {
		db.Stats = stats.New(
			os.Getenv("INFLUX_URL"),
			os.Getenv("INFLUX_TOKEN"),
			os.Getenv("INFLUX_ORGANIZATION"),
			os.Getenv("INFLUX_DATABASE"),
		)
	}

	return db, nil
}

//go:embed migrations
var fs embed.FS

// RunMigrations runs all of the migrations in migrations/.
func RunMigrations(postgres string) (err error) {
	db, err := sql.Open("pgx", postgres)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}

	// we close this because we end up using pgx's native driver for all other queries.
	defer db.Close()

	err = db.Ping()
	if err != nil {
		return errors.Wrap(err, "pinging database")
	}

	// set up migrations from the embedded filesystem
	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: fs,
		Root:       "migrations",
	}

	// run migrations!
	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}

	if n != 0 {
		common.Log.Debugf("Performed %v migrations!", n)
	}
	return nil
}
