package export

import (
	"errors"
	"fmt"
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

func (s *Service) handleExport(c *gin.Context) {
	id := userID(c)
	if id == "" {
		_ = c.Error(errutil.Unauthorized("missing user identity"))
		return
	}

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid export data", errutil.WithErr(err)))
		return
	}

	doc, err := s.Export(c.Request.Context(), id, &req)
	if err != nil {
		var insufficient ledger.InsufficientCreditsError
		if errors.As(err, &insufficient) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":    "Insufficient credits",
				"credits":  insufficient.Available,
				"required": insufficient.Required,
			})
			return
		}
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
