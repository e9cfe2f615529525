package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) MintShield(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	pc, err := h.Interface.MintShield(c.Request.Context(), address)
	respondAction(c, pc, err)
}

func (h *Handler) MintSword(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	pc, err := h.Interface.MintSword(c.Request.Context(), address)
	respondAction(c, pc, err)
}

func (h *Handler) ClaimShield(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	pc, err := h.Interface.ClaimShield(c.Request.Context(), address)
	respondAction(c, pc, err)
}

func (h *Handler) ClaimSword(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	pc, err := h.Interface.ClaimSword(c.Request.Context(), address)
	respondAction(c, pc, err)
}
