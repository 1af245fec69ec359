// Package dbtest starts a disposable Postgres container with the catalog
// schema applied, for integration tests.
package dbtest

import (
	"context"
	"fmt"
	"time"

	"refurb-catalog/internal/config"
	"refurb-catalog/internal/database"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const (
	dbName = "catalog_test"
	dbUser = "user"
	dbPwd  = "password"
)

// Teardown stops the container and closes the store handle.
type Teardown func(context.Context) error

// Start runs a Postgres container and returns a migrated store handle.
func Start(ctx context.Context) (*database.DB, Teardown, error) {
	container, err := postgres.Run(
		ctx,
		"postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("could not start postgres container: %w", err)
	}

	terminate := func(ctx context.Context) error {
		return container.Terminate(ctx)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, terminate, err
	}

	db, err := database.Open(config.DatabaseConfig{
		URL:            connStr,
		MaxOpenConns:   10,
		MaxIdleConns:   2,
		IdleTimeout:    time.Minute,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, terminate, err
	}

	if err := database.RunMigrations(ctx, db.DB.DB, zap.NewNop()); err != nil {
		db.Close()
		return nil, terminate, err
	}

	teardown := func(ctx context.Context) error {
		db.Close()
		return terminate(ctx)
	}

	return db, teardown, nil
}

// Truncate empties every catalog table and resets identities.
func Truncate(ctx context.Context, db *database.DB) error {
	_, err := db.ExecContext(ctx, `TRUNCATE products, categories, users RESTART IDENTITY CASCADE`)
	return err
}
