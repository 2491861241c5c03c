package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/mysql/*.sql
var mysqlMigrations embed.FS

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// MigrateMySQL brings the inventory schema up to date.
func MigrateMySQL(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, goose.DialectMySQL, mysqlMigrations, "migrations/mysql")
}

// MigratePostgres brings the audit log schema up to date. goose needs database/sql,
// so the pool is wrapped for the duration of the run.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return migrate(ctx, db, goose.DialectPostgres, postgresMigrations, "migrations/postgres")
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys embed.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fmt.Errorf("open migrations %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("Applied migration", "source", r.Source.Path, "duration", r.Duration)
	}

	return nil
}
