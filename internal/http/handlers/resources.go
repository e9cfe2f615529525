package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createOreRequest struct {
	OreUnits int64 `json:"ore_units"`
}

// CreateOre converts deposited stone into ore. The body is optional;
// without ore_units the whole deposit is converted.
func (h *Handler) CreateOre(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createOreRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}
	}

	pc, err := h.Interface.CreateOre(c.Request.Context(), address, req.OreUnits)
	respondAction(c, pc, err)
}

type stakeRequest struct {
	Token string `json:"token"`
}

// Stake locks the caller's full deposit of one base resource into the
// resource mint contract.
func (h *Handler) Stake(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req stakeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	pc, err := h.Interface.StakeResources(c.Request.Context(), address, req.Token)
	respondAction(c, pc, err)
}

func (h *Handler) MintResources(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.Interface.MintResources(c.Request.Context(), address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ClaimResources(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.Interface.ClaimResources(c.Request.Context(), address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
