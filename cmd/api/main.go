package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"refurb-catalog/internal/config"
	"refurb-catalog/internal/database"
	"refurb-catalog/internal/logger"
	"refurb-catalog/internal/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// In-flight requests get 30 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Drain the store pool and redis once no handler can use them.
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	done <- true
}

func connectRedis(cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	if !cfg.Enabled() {
		log.Info("REDIS_ADDR not set, login rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Addr), zap.Error(err))
	}

	log.Info("Login rate limiting enabled",
		zap.Int("limit", cfg.LoginLimit),
		zap.Duration("window", cfg.LoginWindow),
	)
	return client
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		log = logger.NewWithDefaults()
		log.Warn("Failed to build logger, using defaults", zap.Error(err))
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	health, err := db.Health(context.Background())
	log.Info("Database health check", zap.Any("health", health), zap.Error(err))

	startupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)

	if err := database.RunMigrations(startupCtx, db.DB.DB, log); err != nil {
		cancel()
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// The bootstrap is all-or-nothing; a failure aborts startup.
	err = database.Bootstrap(startupCtx, db.DB, database.BootstrapOptions{
		AdminUsername: cfg.Bootstrap.AdminUsername,
		AdminEmail:    cfg.Bootstrap.AdminEmail,
		AdminPassword: cfg.Bootstrap.AdminPassword,
		SeedCatalog:   cfg.Bootstrap.SeedCatalog,
	}, log)
	cancel()
	if err != nil {
		log.Fatal("Database bootstrap failed", zap.Error(err))
	}

	srv := server.NewServer(cfg, log, db, connectRedis(cfg.Redis, log))

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
