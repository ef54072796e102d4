package services

import (
	"fmt"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/security"
)

// AuthService authenticates the admin operator and issues session tokens.
// The configured password is hashed once at construction so the plaintext
// never lives beyond startup.
type AuthService struct {
	passwordHash string
	jwtSecret    string
	tokenExpiry  time.Duration
	logger       *logging.ChanneledLogger
}

// NewAuthService creates the auth service from the configured admin
// credentials.
func NewAuthService(adminPassword, jwtSecret string, tokenExpiry time.Duration, logger *logging.ChanneledLogger) (*AuthService, error) {
	if adminPassword == "" {
		return nil, fmt.Errorf("admin password is not configured")
	}
	if jwtSecret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}

	hash, err := security.HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &AuthService{
		passwordHash: hash,
		jwtSecret:    jwtSecret,
		tokenExpiry:  tokenExpiry,
		logger:       logger,
	}, nil
}

// Login verifies the admin password and returns a signed token.
func (s *AuthService) Login(password string) (string, error) {
	if !security.CheckPassword(s.passwordHash, password) {
		s.logger.LogAuthOperation("login", "admin", false)
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := security.GenerateAdminToken(s.jwtSecret, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.LogAuthOperation("login", "admin", true)
	return token, nil
}

// ValidateToken checks a bearer token and reports whether it carries the
// admin role.
func (s *AuthService) ValidateToken(token string) (bool, error) {
	claims, err := security.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return false, err
	}
	return security.IsAdmin(claims), nil
}
