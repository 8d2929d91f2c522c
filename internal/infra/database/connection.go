package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrationsFS embed.FS

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// sqliteDSN appends the connection pragmas, keeping any query the path
// already carries.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqlitePragmas
	}
	return path + "?" + sqlitePragmas
}

// DB is the store handle shared by the repositories. Driver decides the
// placeholder style and the migration set.
type DB struct {
	*sql.DB
	Driver string
}

// NewDBConnection opens the database, pings it and applies pending migrations.
// For sqlite, dsn is a file path.
func NewDBConnection(ctx context.Context, driver, dsn string) (*DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		path, _, _ := strings.Cut(dsn, "?")
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		sqlDB, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, err
		}
		// single writer
		sqlDB.SetMaxOpenConns(1)
	case DriverPostgres:
		sqlDB, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	db := &DB{DB: sqlDB, Driver: driver}
	if err := db.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) Migrate(ctx context.Context) error {
	dialect := goose.DialectSQLite3
	if db.Driver == DriverPostgres {
		dialect = goose.DialectPostgres
	}

	fsys, err := fs.Sub(migrationsFS, "migrations/"+db.Driver)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Rebind turns ? placeholders into $n for postgres.
func (db *DB) Rebind(query string) string {
	if db.Driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
