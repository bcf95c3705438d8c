package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/wine-catalog/internal/domain"
	"github.com/jsamuelsen/wine-catalog/internal/platform/logging"
	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

const (
	// ContextKeyPrincipal is the gin context key for the authenticated principal.
	ContextKeyPrincipal = "principal"

	// HeaderAuthorization carries the bearer token.
	HeaderAuthorization = "Authorization"

	// HeaderWWWAuthenticate is set on 401 responses.
	HeaderWWWAuthenticate = "WWW-Authenticate"

	bearerScheme = "Bearer"
)

// RequireAuth returns middleware that requires a valid bearer token.
// Missing, malformed, expired or badly signed tokens are answered with
// 401 and a WWW-Authenticate challenge; the chain is aborted.
func RequireAuth(verifier ports.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader(HeaderAuthorization))
		if !ok {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			if !domain.IsUnauthorized(err) {
				_ = c.Error(err)
				c.Abort()

				return
			}

			logging.FromContext(c.Request.Context()).Debug("bearer token rejected", "error", err)
			abortUnauthorized(c, err.Error())

			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the gin context.
// Returns nil if RequireAuth did not run.
func GetPrincipal(c *gin.Context) *domain.Principal {
	if v, exists := c.Get(ContextKeyPrincipal); exists {
		if p, ok := v.(*domain.Principal); ok {
			return p
		}
	}

	return nil
}

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

// abortUnauthorized aborts with a 401 and a bearer challenge.
func abortUnauthorized(c *gin.Context, message string) {
	c.Header(HeaderWWWAuthenticate, bearerScheme)
	dto.AbortWithErrorCode(c, dto.ErrorCodeUnauthorized, message)
}
