package middleware

import (
	"net/http"

	"refurb-catalog/internal/auth"
	"refurb-catalog/internal/domain"

	"go.uber.org/zap"
)

// RequireAdmin middleware ensures the user has admin role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return requireSubject(auth.Subject.IsAdmin, []string{domain.RoleAdmin}, logger)
}

// RequireRole middleware ensures the user has one of the specified roles.
// It must run after AuthMiddleware.
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return requireSubject(func(subject auth.Subject) bool {
		return subject.HasRole(allowedRoles...)
	}, allowedRoles, logger)
}

func requireSubject(allowed func(auth.Subject) bool, allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := GetSubject(r.Context())
			if !ok {
				logger.Warn("Subject not found in context", zap.String("path", r.URL.Path))
				RespondWithError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			if !allowed(subject) {
				logger.Warn("User role not authorized",
					zap.Int64("user_id", subject.ID),
					zap.String("role", subject.Role),
					zap.Strings("allowed_roles", allowedRoles),
				)
				RespondWithError(w, http.StatusForbidden, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
