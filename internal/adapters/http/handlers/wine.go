package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/wine-catalog/internal/app"
)

// WineHandler handles the wine catalog endpoints.
type WineHandler struct {
	service *app.WineService
}

// NewWineHandler creates a new wine handler.
func NewWineHandler(service *app.WineService) *WineHandler {
	return &WineHandler{
		service: service,
	}
}

// List handles GET /api/wines
// Returns every wine in insertion order; an empty catalog is [].
//
// @Summary List wines
// @Tags wines
// @Produce json
// @Success 200 {array} dto.WineDTO
// @Router /api/wines [get]
func (h *WineHandler) List(c *gin.Context) {
	wines := h.service.List(c.Request.Context())
	c.JSON(http.StatusOK, dto.WinesFromDomain(wines))
}

// Get handles GET /api/wines/:id
//
// @Summary Get a wine by ID
// @Tags wines
// @Produce json
// @Param id path int true "Wine ID"
// @Success 200 {object} dto.WineDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/wines/{id} [get]
func (h *WineHandler) Get(c *gin.Context) {
	id, ok := wineID(c)
	if !ok {
		return
	}

	wine, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WineFromDomain(wine))
}

// Create handles POST /api/wines
// Responds 201 with a Location header pointing at the new wine and the
// submitted body echoed back.
//
// @Summary Create a wine
// @Tags wines
// @Accept json
// @Produce json
// @Param wine body dto.WineDTO true "Wine"
// @Success 201 {object} dto.WineDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.UnhandledErrorResponse
// @Router /api/wines [post]
func (h *WineHandler) Create(c *gin.Context) {
	req, ok := bindWine(c)
	if !ok {
		return
	}

	wine := req.ToDomain()

	err := h.service.Create(c.Request.Context(), wine)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	location := strings.TrimSuffix(c.Request.URL.Path, "/") + "/" + strconv.Itoa(wine.ID)
	c.Header("Location", location)
	c.JSON(http.StatusCreated, req)
}

// Update handles PUT /api/wines/:id
// The path id wins over anything in the body.
//
// @Summary Replace a wine
// @Tags wines
// @Accept json
// @Param id path int true "Wine ID"
// @Param wine body dto.WineDTO true "Wine"
// @Success 200
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/wines/{id} [put]
func (h *WineHandler) Update(c *gin.Context) {
	id, ok := wineID(c)
	if !ok {
		return
	}

	req, ok := bindWine(c)
	if !ok {
		return
	}

	err := h.service.Update(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// Delete handles DELETE /api/wines/:id
// Requires a bearer token.
//
// @Summary Delete a wine
// @Tags wines
// @Param id path int true "Wine ID"
// @Security BearerAuth
// @Success 200
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/wines/{id} [delete]
func (h *WineHandler) Delete(c *gin.Context) {
	id, ok := wineID(c)
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// RegisterWineRoutes registers wine routes on the given router group.
// requireAuth guards DELETE.
func (h *WineHandler) RegisterWineRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	wines := rg.Group("/wines")
	wines.GET("", h.List)
	wines.GET("/:id", h.Get)
	wines.POST("", h.Create)
	wines.PUT("/:id", h.Update)
	wines.DELETE("/:id", requireAuth, h.Delete)
}

// wineID parses the :id path parameter, answering 400 when it is not an integer.
func wineID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "wine id must be an integer")
		return 0, false
	}

	return id, true
}

// bindWine decodes and validates the request body, answering 400 on failure.
func bindWine(c *gin.Context) (dto.WineDTO, bool) {
	var req dto.WineDTO

	err := dto.Bind(c, &req)
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		return req, false
	}

	if violations := dto.ValidateWine(req); len(violations) > 0 {
		dto.HandleError(c, dto.ValidationFailure("wine", violations))
		return req, false
	}

	return req, true
}
