package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"cerebrin.app/backend/core/db/migrations"
)

// Migrator runs the embedded goose migrations against the pool.
type Migrator struct {
	sqlDB    *sql.DB
	provider *goose.Provider
}

func (db *DB) Migrator() (*Migrator, error) {
	sqlDB := stdlib.OpenDBFromPool(db.pool)

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("creating goose provider: %w", err)
	}

	return &Migrator{sqlDB: sqlDB, provider: provider}, nil
}

func (m *Migrator) Up(ctx context.Context) ([]*goose.MigrationResult, error) {
	return m.provider.Up(ctx)
}

func (m *Migrator) Down(ctx context.Context) (*goose.MigrationResult, error) {
	return m.provider.Down(ctx)
}

func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	return m.provider.Status(ctx)
}

func (m *Migrator) Close() error {
	return m.sqlDB.Close()
}
