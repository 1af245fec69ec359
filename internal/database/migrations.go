package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// MigrationsDir is the directory of the embedded migration files
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var embedMigrations embed.FS

func newMigrationProvider(db *sql.DB) (*goose.Provider, error) {
	migrations, err := fs.Sub(embedMigrations, MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// RunMigrations applies every pending migration. It runs once at startup,
// before the server accepts traffic.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	provider, err := newMigrationProvider(db)
	if err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...", zap.String("dir", MigrationsDir))

	results, err := provider.Up(ctx)
	for _, result := range results {
		logger.Info("Migration applied",
			zap.Int64("version", result.Source.Version),
			zap.String("file", result.Source.Path),
			zap.Duration("duration", result.Duration),
		)
	}
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed successfully", zap.Int("applied", len(results)))
	return nil
}

// PendingMigrations returns the versions of embedded migrations not yet
// applied to db.
func PendingMigrations(ctx context.Context, db *sql.DB) ([]int64, error) {
	provider, err := newMigrationProvider(db)
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	pending := []int64{}
	for _, status := range statuses {
		if status.State == goose.StatePending {
			pending = append(pending, status.Source.Version)
		}
	}
	return pending, nil
}
