package middleware

import (
	"net/http"

	"resumeforge/pkg/errutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error maps errors attached to the gin context onto HTTP responses.
// BaseError carries its own status; anything else collapses to a generic 500
// so internal detail never leaks to callers.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil || c.Writer.Written() {
			return
		}

		if v, ok := err.Err.(errutil.BaseError); ok {
			c.JSON(v.Code.HTTPStatus(), v.JSON())
			return
		}

		zap.L().Error("unhandled request error", zap.String("path", c.FullPath()), zap.Error(err.Err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code":    errutil.StatusInternal,
			"message": "internal server error",
		}})
	}
}
