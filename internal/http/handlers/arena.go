package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	SoldierNonce uint64 `json:"soldier_nonce"`
	FeeToken     string `json:"fee_token"`
	FeeAmount    int64  `json:"fee_amount"`
}

func (h *Handler) CreateGame(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createGameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	pc, err := h.Interface.CreateGame(c.Request.Context(), address, req.SoldierNonce, req.FeeToken, req.FeeAmount)
	respondAction(c, pc, err)
}

type acceptGameRequest struct {
	SoldierNonce uint64 `json:"soldier_nonce"`
}

func (h *Handler) AcceptGame(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	var req acceptGameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	pc, err := h.Interface.AcceptGame(c.Request.Context(), address, gameID, req.SoldierNonce)
	respondAction(c, pc, err)
}

func (h *Handler) OpenGames(c *gin.Context) {
	games, err := h.Arena.OpenGames(c.Request.Context(), gamesLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load games"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (h *Handler) CompletedGames(c *gin.Context) {
	games, err := h.Arena.CompletedGames(c.Request.Context(), gamesLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load games"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func gamesLimit(c *gin.Context) int {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	return limit
}
