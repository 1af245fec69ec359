package auth

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"refurb-catalog/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the validity window of issued tokens
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidToken = fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	ErrTokenExpired = fmt.Errorf("token expired: %w", domain.ErrUnauthenticated)
)

// Subject is the identity carried by a token
type Subject struct {
	ID       int64
	Username string
	Role     string
}

// IsAdmin reports whether the subject holds the admin role.
func (s Subject) IsAdmin() bool {
	return s.HasRole(domain.RoleAdmin)
}

// HasRole reports whether the subject holds one of roles.
func (s Subject) HasRole(roles ...string) bool {
	return slices.Contains(roles, s.Role)
}

// Claims represents the JWT claims
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueToken signs a time-limited token for the subject
func (m *TokenManager) IssueToken(subject Subject) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:   subject.ID,
		Username: subject.Username,
		Role:     subject.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subject.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken validates a token and returns its subject. It fails with
// ErrTokenExpired past the validity window and ErrInvalidToken otherwise.
func (m *TokenManager) VerifyToken(tokenString string) (Subject, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Subject{}, ErrTokenExpired
		}
		return Subject{}, ErrInvalidToken
	}

	if !token.Valid || claims.UserID <= 0 || claims.Role == "" {
		return Subject{}, ErrInvalidToken
	}

	return Subject{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
