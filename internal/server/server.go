package server

import (
	"fmt"
	"net/http"
	"time"

	"refurb-catalog/internal/auth"
	"refurb-catalog/internal/config"
	"refurb-catalog/internal/database"
	custommiddleware "refurb-catalog/internal/middleware"
	"refurb-catalog/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.DB
	redis  *redis.Client
}

// NewServer assembles the HTTP server over the store handle. redisClient may
// be nil, which disables login rate limiting.
func NewServer(cfg *config.Config, logger *zap.Logger, db *database.DB, redisClient *redis.Client) *Server {
	router := NewRouter(Dependencies{
		Users:      repository.NewUserRepository(db.DB),
		Categories: repository.NewCategoryRepository(db.DB),
		Products:   repository.NewProductRepository(db.DB),
		Tokens:     auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiry),
		Health:     db,
		Redis:      redisClient,
		LoginLimit: custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.Redis.LoginLimit,
			Window:            cfg.Redis.LoginWindow,
			KeyPrefix:         "rate_limit:login",
		},
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Development:    !cfg.Server.IsProduction(),
		Logger:         logger,
	})

	return &Server{
		Server: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:           router,
			IdleTimeout:       time.Minute,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

// Close drains the store pool and the redis client
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
			return err
		}
	}

	return nil
}
