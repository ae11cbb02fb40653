package transaction

import (
	"net/http"

	"resumeforge/pkg/errutil"

	"github.com/gin-gonic/gin"
)

func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return c.Query("userId")
}

type createTransactionRequest struct {
	ExternalPaymentID *string `json:"externalPaymentId"`
	Credits           int64   `json:"credits" binding:"required"`
	Price             float64 `json:"price"`
	Status            string  `json:"status" binding:"omitempty,oneof=pending completed failed"`
}

func (s *Service) handleCreate(c *gin.Context) {
	id := userID(c)
	if id == "" {
		_ = c.Error(errutil.Unauthorized("missing user identity"))
		return
	}

	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	record, err := s.Record(c.Request.Context(), id, req.ExternalPaymentID, req.Credits, req.Price, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": record})
}

func (s *Service) handleGet(c *gin.Context) {
	record, err := s.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=completed failed"`
}

func (s *Service) handleUpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	var (
		record *Transaction
		err    error
	)
	if req.Status == StatusCompleted {
		record, err = s.CompletePurchase(c.Request.Context(), c.Param("id"))
	} else {
		record, err = s.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}
