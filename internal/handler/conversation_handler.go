package handler

import (
	"net/http"
	"strings"

	"sea-u/internal/services"
	"sea-u/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	directory *services.DirectoryService
	lists     *services.ConversationListBuilder
}

func NewConversationHandler(directory *services.DirectoryService, lists *services.ConversationListBuilder) *ConversationHandler {
	return &ConversationHandler{directory: directory, lists: lists}
}

// Create serves POST /v1/conversations. Calling it again for the same pair
// returns the same conversation id.
func (h *ConversationHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req httpdto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	target := services.ChatTarget{SeaID: strings.TrimSpace(req.SeaID)}
	if req.UserID != "" {
		otherID, err := parseUUID(req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user_id", "INVALID_REQUEST"))
			return
		}
		target.UserID = otherID
	}

	convID, err := h.directory.StartChat(c.Request.Context(), userID, target)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.CreateConversationResponse{
		ConversationID: convID.String(),
	}))
}

// List serves GET /v1/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := h.lists.Build(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ConversationsResponse{
		Conversations: httpdto.FromSummaries(items),
	}))
}
