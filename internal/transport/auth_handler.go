package transport

import (
	"net/http"
	"time"

	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/middleware"
	"refurb-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" mod:"trim" validate:"notblank"`
	Password string `json:"password" mod:"trim" validate:"notblank"`
}

// ChangePasswordRequest represents the change password request payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" mod:"trim" validate:"notblank"`
	NewPassword     string `json:"newPassword" mod:"trim" validate:"notblank,min=6"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

func profileOf(user *domain.User) UserProfile {
	profile := UserProfile{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
	if !user.CreatedAt.IsZero() {
		profile.CreatedAt = user.CreatedAt.UTC().Format(time.RFC3339)
	}
	return profile
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth routes. loginLimiter may be nil.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, loginLimiter func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		if loginLimiter != nil {
			r.With(loginLimiter).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/profile", h.GetProfile)
			r.Post("/change-password", h.ChangePassword)
		})
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "Login failed")
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, h.logger, err, "Login failed")
		return
	}

	h.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	middleware.RespondWithData(w, http.StatusOK, "Login successful", LoginResponse{
		Token: token,
		User:  profileOf(user),
	})
}

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		respondError(w, h.logger, domain.ErrUnauthenticated, "Failed to fetch profile")
		return
	}

	user, err := h.authService.GetProfile(r.Context(), subject.ID)
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch profile")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, "", profileOf(user))
}

// ChangePassword replaces the authenticated user's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		respondError(w, h.logger, domain.ErrUnauthenticated, "Failed to change password")
		return
	}

	var req ChangePasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "Failed to change password")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), subject.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, h.logger, err, "Failed to change password")
		return
	}

	h.logger.Info("Password changed", zap.Int64("user_id", subject.ID))
	middleware.RespondWithMessage(w, http.StatusOK, "Password updated successfully")
}
