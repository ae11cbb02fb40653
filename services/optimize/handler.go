package optimize

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeforge/pkg/errutil"
	"resumeforge/services/ledger"
)

func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return c.Query("userId")
}

func (s *Service) handleOptimize(c *gin.Context) {
	id := userID(c)
	if id == "" {
		_ = c.Error(errutil.Unauthorized("missing user identity"))
		return
	}

	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	result, err := s.Optimize(c.Request.Context(), id, &req)
	if err != nil {
		var insufficient ledger.InsufficientCreditsError
		if errors.As(err, &insufficient) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":         "Insufficient credits",
				"credits":       insufficient.Available,
				"required":      insufficient.Required,
				"needsPurchase": true,
			})
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
