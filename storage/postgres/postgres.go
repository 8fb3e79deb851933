// Package postgres opens the secondary store and applies its schema migrations.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jrsteele09/go-identity-bridge/storage/postgres/migrations"
	"github.com/pressly/goose/v3"
)

const driverName = "pgx"

// sqlOpen and gooseUpContext are seams for tests
var (
	sqlOpen        = sql.Open
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
)

// Open connects with the pgx driver and verifies the connection within timeout
func Open(ctx context.Context, dsn string, timeout time.Duration) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("[postgres Open] database url is required")
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("[postgres Open] db open error: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("[postgres Open] db ping error: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded migrations
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("[postgres Migrate] %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("[postgres Migrate] migration error: %w", err)
	}
	return nil
}
