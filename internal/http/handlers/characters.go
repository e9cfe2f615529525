package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) MintCitizen(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	pc, err := h.Interface.MintCitizen(c.Request.Context(), address)
	respondAction(c, pc, err)
}

func (h *Handler) ClaimCitizen(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	pc, err := h.Interface.ClaimCitizen(c.Request.Context(), address)
	respondAction(c, pc, err)
}

type upgradeCitizenRequest struct {
	Nonce uint64 `json:"nonce"`
}

func (h *Handler) UpgradeCitizen(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req upgradeCitizenRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	pc, err := h.Interface.UpgradeCitizen(c.Request.Context(), address, req.Nonce)
	respondAction(c, pc, err)
}

type upgradeSoldierRequest struct {
	SoldierNonce uint64 `json:"soldier_nonce"`
	ToolNonce    uint64 `json:"tool_nonce"`
}

func (h *Handler) UpgradeSoldier(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req upgradeSoldierRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	pc, err := h.Interface.UpgradeSoldier(c.Request.Context(), address, req.SoldierNonce, req.ToolNonce)
	respondAction(c, pc, err)
}
