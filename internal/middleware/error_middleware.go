package middleware

import (
	"net/http"

	"sea-u/internal/services"
	"sea-u/internal/transport/httpdto"
	"sea-u/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := services.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			if l != nil {
				l.WithContext(c.Request.Context()).Errorf("request error: %s", err.Error())
			}
			c.JSON(status, httpdto.NewErrorResponse("internal error", httpdto.ErrorCode(err)))
			return
		}
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), httpdto.ErrorCode(err)))
	}
}
