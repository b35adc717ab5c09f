package handler

import (
	"net/http"
	"strconv"

	"sea-u/internal/services"
	"sea-u/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUser reads the id set by AuthMiddleware and answers 401 when absent.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return uuid.Nil, false
	}
	return userID, true
}

// fail hands err to the ErrorHandler middleware, which picks status and code.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

func parseInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
