package handler

import (
	"net/http"

	"sea-u/internal/domain/settings"
	"sea-u/internal/services"
	"sea-u/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SettingsHandler struct {
	service *services.SettingsService
}

func NewSettingsHandler(service *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get serves GET /v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	current, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	h.respond(c, userID, current)
}

// Update serves PATCH /v1/settings with a partial settings object.
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var patch settings.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	updated, err := h.service.Update(c.Request.Context(), userID, patch)
	if err != nil {
		fail(c, err)
		return
	}
	h.respond(c, userID, updated)
}

// CompleteTour serves POST /v1/settings/tour
func (h *SettingsHandler) CompleteTour(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.CompleteTour(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Export serves POST /v1/settings/export
func (h *SettingsHandler) Export(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := h.service.Export(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromExport(res)))
}

func (h *SettingsHandler) respond(c *gin.Context, userID uuid.UUID, s settings.Settings) {
	done, err := h.service.TourCompleted(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SettingsResponse{
		Settings:      s,
		FontPx:        s.FontSize.Pixels(),
		TourCompleted: done,
	}))
}
