package ledger

import (
	"net/http"

	"resumeforge/pkg/errutil"

	"github.com/gin-gonic/gin"
)

// userID resolves the caller identity. Session handling is an external
// concern; the gateway in front of this service injects X-User-ID.
func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return c.Query("userId")
}

func (s *Service) handleGetBalance(c *gin.Context) {
	id := userID(c)
	if id == "" {
		_ = c.Error(errutil.Unauthorized("missing user identity"))
		return
	}

	balance, err := s.GetBalance(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

func (s *Service) handleListEntries(c *gin.Context) {
	id := userID(c)
	if id == "" {
		_ = c.Error(errutil.Unauthorized("missing user identity"))
		return
	}

	entries, err := s.ListEntries(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

type creditMutationRequest struct {
	Action string `json:"action" binding:"required,oneof=add consume"`
	Amount int64  `json:"amount" binding:"required"`
	Kind   string `json:"kind" binding:"omitempty,oneof=purchase bonus"`
}

func (s *Service) handleMutateCredits(c *gin.Context) {
	id := userID(c)
	if id == "" {
		_ = c.Error(errutil.Unauthorized("missing user identity"))
		return
	}

	var req creditMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	switch req.Action {
	case "add":
		kind := Kind(req.Kind)
		if kind == "" {
			kind = KindBonus
		}
		if _, err := s.AddCredits(c.Request.Context(), id, req.Amount, kind); err != nil {
			_ = c.Error(err)
			return
		}
	case "consume":
		consumed, err := s.ConsumeCredits(c.Request.Context(), id, req.Amount)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if !consumed {
			_ = c.Error(errutil.BadRequest("insufficient credits"))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
