package handler

import (
	"net/http"

	"sea-u/internal/services"
	"sea-u/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	directory *services.DirectoryService
}

func NewUserHandler(directory *services.DirectoryService) *UserHandler {
	return &UserHandler{directory: directory}
}

// Me serves GET /v1/me/profile
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p, err := h.directory.Me(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromProfile(p)))
}

// Lookup serves GET /v1/users/lookup?sea_id=
func (h *UserHandler) Lookup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req httpdto.LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("sea_id is required", "INVALID_REQUEST"))
		return
	}
	p, err := h.directory.LookupBySeaID(c.Request.Context(), userID, req.SeaID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromProfile(p)))
}

// Directory serves GET /v1/directory?q=
func (h *UserHandler) Directory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entries, err := h.directory.Search(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.DirectoryResponse{
		Users: httpdto.FromDirectoryEntries(entries),
	}))
}
