package service

import (
	"context"
	"errors"
	"fmt"

	"refurb-catalog/internal/auth"
	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)
	ErrIncorrectPassword  = fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthenticated)
)

// TokenIssuer signs bearer tokens for authenticated subjects
type TokenIssuer interface {
	IssueToken(subject auth.Subject) (string, error)
}

// AuthService defines the interface for credential business logic
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, user *domain.User, err error)
	GetProfile(ctx context.Context, userID int64) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	hash     func(password string) (string, error)
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		hash:     auth.HashPassword,
	}
}

// dummyHash is compared against when the username is unknown so that both
// failure paths pay for one bcrypt comparison.
var dummyHash, _ = auth.HashPassword("refurb-catalog-dummy-password")

// Login authenticates a user and returns a signed token
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			auth.VerifyPassword(password, dummyHash)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(auth.Subject{ID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, user, nil
}

// GetProfile retrieves the account of an authenticated user
func (s *authService) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one
func (s *authService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrIncorrectPassword
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
