package handlers

import (
	"net/http"

	"crafting_arena/internal/domain"

	"github.com/gin-gonic/gin"
)

type depositRequest struct {
	Payments []struct {
		Token  string `json:"token"`
		Nonce  uint64 `json:"nonce"`
		Amount int64  `json:"amount"`
	} `json:"payments"`
}

// Deposit moves wallet tokens into the crafting deposit ledger
func (h *Handler) Deposit(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req depositRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	payments := make([]domain.TokenPayment, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, domain.TokenPayment{Token: p.Token, Nonce: p.Nonce, Amount: p.Amount})
	}

	if err := h.Interface.DepositResources(c.Request.Context(), address, payments); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Deposits lists the caller's deposit ledger
func (h *Handler) Deposits(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	deposits, err := h.Interface.Deposits(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load deposits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}
