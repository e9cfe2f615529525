package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// NFT returns one NFT instance's metadata view
func (h *Handler) NFT(c *gin.Context) {
	collection := c.Param("collection")
	nonce, err := strconv.ParseUint(c.Param("nonce"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nonce"})
		return
	}

	n, err := h.NFTs.Get(c.Request.Context(), collection, nonce)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load nft"})
		return
	}
	if n == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "nft not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collection":      n.Collection,
		"nonce":           n.Nonce,
		"name":            n.Name,
		"royalties":       n.Royalties,
		"attributes":      n.Attributes,
		"attributes_hash": n.AttributesHash,
		"uris":            n.URIs,
	})
}
