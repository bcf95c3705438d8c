// Package token issues and verifies HS256-signed JWT bearer tokens.
//
// Verification checks the signature, the algorithm and the expiry. Issuer and
// audience are written into every token but are not checked on
// verification.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen/wine-catalog/internal/domain"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 30 * time.Minute

// MinSecretLength is the minimum signing key length in bytes (256 bits).
const MinSecretLength = 32

// ErrWeakSecret is returned when the signing key is shorter than MinSecretLength.
var ErrWeakSecret = errors.New("signing secret too short")

// Config holds token settings.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims is the JWT payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager implements ports.TokenIssuer and ports.TokenVerifier.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a token manager. A zero TTL falls back to DefaultTTL.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrWeakSecret, MinSecretLength, len(cfg.Secret))
	}

	m := &Manager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      time.Now,
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Issue signs a token for subject carrying role, valid for the configured TTL.
func (m *Manager) Issue(_ context.Context, subject, role string) (*domain.AccessToken, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &domain.AccessToken{
		Value:     signed,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

// Verify parses raw and returns the principal it was issued for.
// Every failure is reported as a domain unauthorized error.
func (m *Manager) Verify(_ context.Context, raw string) (*domain.Principal, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(raw, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, domain.NewUnauthorizedError(verifyReason(err))
	}

	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.NewUnauthorizedError("invalid token")
	}

	return &domain.Principal{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}

func (m *Manager) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}

	return m.secret, nil
}

// verifyReason condenses a jwt parse error into a short, loggable reason.
func verifyReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed token"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "invalid signature"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable token"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "missing required claim"
	default:
		return "invalid token"
	}
}
