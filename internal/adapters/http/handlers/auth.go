package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/wine-catalog/internal/app"
	"github.com/jsamuelsen/wine-catalog/internal/domain"
)

// AuthHandler handles the login endpoint.
type AuthHandler struct {
	service *app.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *app.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /api/auth/login
// Wrong credentials get a bare 401.
//
// @Summary Obtain a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest

	err := dto.Bind(c, &req)
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if domain.IsUnauthorized(err) {
			c.Status(http.StatusUnauthorized)
			return
		}

		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.LoginResponseFromDomain(token))
}

// RegisterAuthRoutes registers auth routes on the given router group.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}
