package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"refurb-catalog/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const defaultConnectTimeout = 10 * time.Second

// DB is the process-wide store handle. It is created once at startup and
// closed during graceful shutdown.
type DB struct {
	*sqlx.DB
}

// Open connects to Postgres through the pgx stdlib driver, applies pool
// sizing and verifies connectivity.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	connConfig, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	connConfig.ConnectTimeout = connectTimeout

	sqlDB := stdlib.OpenDB(*connConfig)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(cfg.IdleTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlx.NewDb(sqlDB, "pgx")}, nil
}

// Health pings the store and reports pool statistics.
func (db *DB) Health(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = "database unreachable"
		return stats, err
	}

	dbStats := db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_time_closed"] = strconv.FormatInt(dbStats.MaxIdleTimeClosed, 10)

	if dbStats.OpenConnections > 0 && dbStats.InUse == dbStats.MaxOpenConnections {
		stats["message"] = "connection pool exhausted"
	}

	return stats, nil
}
