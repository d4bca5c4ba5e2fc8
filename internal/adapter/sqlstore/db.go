// Package sqlstore opens the account database and applies its schema.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/heartmarshall/transcribe-dashboard/internal/config"
)

// Supported config drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps *sql.DB with a statement builder matching the driver's placeholders.
type DB struct {
	*sql.DB
	driver  string
	builder sq.StatementBuilderType
}

// Open connects to the configured database, pings it for fail-fast
// validation, and applies pending migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	sqlDriver, placeholder, err := driverFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(sqlDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	d := &DB{
		DB:      db,
		driver:  cfg.Driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}

	if err := d.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

func driverFor(name string) (string, sq.PlaceholderFormat, error) {
	switch name {
	case DriverSQLite:
		return "sqlite", sq.Question, nil
	case DriverPostgres:
		return "pgx", sq.Dollar, nil
	default:
		return "", nil, fmt.Errorf("unsupported database driver %q", name)
	}
}

// Ping satisfies health checks.
func (d *DB) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Driver returns the configured driver name.
func (d *DB) Driver() string { return d.driver }

// Builder returns a squirrel builder with the driver's placeholder format.
func (d *DB) Builder() sq.StatementBuilderType { return d.builder }
