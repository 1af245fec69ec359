package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"refurb-catalog/internal/auth"

	"go.uber.org/zap"
)

type contextKey string

const subjectKey contextKey = "subject"

// TokenVerifier checks bearer tokens
type TokenVerifier interface {
	VerifyToken(token string) (auth.Subject, error)
}

// AuthMiddleware validates bearer tokens and stores the subject in the
// request context
func AuthMiddleware(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			subject, err := verifier.VerifyToken(tokenString)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, auth.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "Token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			logger.Debug("User authenticated",
				zap.Int64("user_id", subject.ID),
				zap.String("role", subject.Role),
			)

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
		})
	}
}

// WithSubject returns a copy of ctx carrying subject
func WithSubject(ctx context.Context, subject auth.Subject) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// GetSubject extracts the authenticated subject from request context
func GetSubject(ctx context.Context) (auth.Subject, bool) {
	subject, ok := ctx.Value(subjectKey).(auth.Subject)
	return subject, ok
}
