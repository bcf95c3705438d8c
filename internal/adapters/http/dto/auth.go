package dto

import (
	"time"

	"github.com/jsamuelsen/wine-catalog/internal/domain"
)

// LoginRequest carries credentials for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginResponseFromDomain maps an issued token.
func LoginResponseFromDomain(t *domain.AccessToken) LoginResponse {
	return LoginResponse{Token: t.Value, ExpiresAt: t.ExpiresAt}
}
