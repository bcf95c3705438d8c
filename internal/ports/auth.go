package ports

import (
	"context"

	"github.com/jsamuelsen/wine-catalog/internal/domain"
)

// TokenIssuer signs access tokens for authenticated callers.
type TokenIssuer interface {
	// Issue creates a token for subject carrying role.
	Issue(ctx context.Context, subject, role string) (*domain.AccessToken, error)
}

// TokenVerifier checks bearer tokens presented on protected routes.
type TokenVerifier interface {
	// Verify validates signature and expiry and returns the caller.
	// Returns a domain.ErrUnauthorized error for any invalid token.
	Verify(ctx context.Context, raw string) (*domain.Principal, error)
}
