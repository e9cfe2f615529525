package handlers

import (
	"net/http"

	"crafting_arena/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	Address   string `json:"address"`
	Timestamp string `json:"timestamp"`
	Signature string `json:"signature"`
}

// Auth exchanges a signed address proof for a session token. The
// account row is created on first login.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if !service.ValidateAddressProof(req.Address, req.Timestamp, req.Signature, h.AuthSecret) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or stale address proof"})
		return
	}

	ctx := c.Request.Context()
	if err := h.AccountRepo.Ensure(ctx, req.Address, false); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	token, err := service.GenerateJWT(req.Address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"address": req.Address,
	})
}
