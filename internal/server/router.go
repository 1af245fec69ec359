package server

import (
	"context"
	"net/http"

	"refurb-catalog/internal/auth"
	custommiddleware "refurb-catalog/internal/middleware"
	"refurb-catalog/internal/repository"
	"refurb-catalog/internal/service"
	"refurb-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HealthChecker reports store connectivity
type HealthChecker interface {
	Health(ctx context.Context) (map[string]string, error)
}

// Dependencies are the collaborators the router is assembled from
type Dependencies struct {
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	Tokens     *auth.TokenManager
	Health     HealthChecker

	// Redis enables login rate limiting when non-nil.
	Redis      *redis.Client
	LoginLimit custommiddleware.RateLimitConfig

	AllowedOrigins []string
	Development    bool
	Logger         *zap.Logger
}

// NewRouter wires services, handlers and middleware into the API router
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger

	router := chi.NewRouter()
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(deps.AllowedOrigins, deps.Development))

	router.NotFound(custommiddleware.NotFoundHandler)
	router.MethodNotAllowed(custommiddleware.MethodNotAllowedHandler)

	authService := service.NewAuthService(deps.Users, deps.Tokens)
	categoryService := service.NewCategoryService(deps.Categories)
	productService := service.NewProductService(deps.Products, deps.Categories)

	authHandler := transport.NewAuthHandler(authService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	productHandler := transport.NewProductHandler(productService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(deps.Tokens, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	var loginLimiter func(http.Handler) http.Handler
	if deps.Redis != nil {
		loginLimiter = custommiddleware.RateLimitMiddleware(deps.Redis, deps.LoginLimit, logger)
	}

	health := healthHandler(deps.Health, logger)
	router.Get("/health", health)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", health)

		authHandler.RegisterRoutes(r, authMiddleware, loginLimiter)
		categoryHandler.RegisterRoutes(r, authMiddleware, adminMiddleware)
		productHandler.RegisterRoutes(r, authMiddleware, adminMiddleware)
	})

	return router
}

func healthHandler(checker HealthChecker, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := checker.Health(r.Context())
		if err != nil {
			logger.Error("Health check failed", zap.Error(err))
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, custommiddleware.Envelope{
				Success: false,
				Message: "Database unreachable",
				Data:    stats,
			})
			return
		}

		custommiddleware.RespondWithData(w, http.StatusOK, "Server is running", stats)
	}
}
