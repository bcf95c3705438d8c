package app

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/jsamuelsen/wine-catalog/internal/domain"
	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

// DefaultRole is the role claim carried by every issued token.
const DefaultRole = "User"

// AuthService authenticates the single configured account and issues tokens.
// There is no credential store: the username and password come from configuration.
type AuthService struct {
	username     string
	passwordHash []byte
	role         string
	issuer       ports.TokenIssuer
	logger       *slog.Logger

	comparePassword func(hash, password []byte) error
}

// AuthServiceConfig contains configuration for the auth service.
type AuthServiceConfig struct {
	Username string
	Password string
	Role     string
	Issuer   ports.TokenIssuer
	Logger   *slog.Logger

	// HashCost is the bcrypt cost used to hash Password at construction.
	// Zero means bcrypt.DefaultCost.
	HashCost int
}

// NewAuthService creates an auth service. The configured password is kept only as a bcrypt hash.
func NewAuthService(cfg AuthServiceConfig) (*AuthService, error) {
	cost := cfg.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("hashing configured password: %w", err)
	}

	role := cfg.Role
	if role == "" {
		role = DefaultRole
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		username:     cfg.Username,
		passwordHash: hash,
		role:         role,
		issuer:       cfg.Issuer,
		logger:       logger.With(slog.String("component", "app.AuthService")),

		comparePassword: bcrypt.CompareHashAndPassword,
	}, nil
}

// Login checks the credentials and returns a signed token.
// Any mismatch yields a domain unauthorized error and no token. The password
// hash is compared even for an unknown username so both take equal time.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.AccessToken, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1

	// Mismatch and over-long input both fail here.
	passwordOK := s.comparePassword(s.passwordHash, []byte(password)) == nil

	if !userOK || !passwordOK {
		reason := "wrong password"
		if !userOK {
			reason = "unknown user"
		}

		s.logger.WarnContext(ctx, "login rejected", slog.String("reason", reason))

		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.issuer.Issue(ctx, username, s.role)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.InfoContext(ctx, "login succeeded",
		slog.String("subject", username),
		slog.Time("expires_at", token.ExpiresAt),
	)

	return token, nil
}
