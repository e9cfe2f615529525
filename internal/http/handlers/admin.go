package handlers

import (
	"crypto/subtle"
	"net/http"

	"crafting_arena/internal/repository"
	"crafting_arena/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminHandler covers the owner-only surface: token and collection
// issuance, contract bindings and mint period tuning.
type AdminHandler struct {
	apiKey   string
	tokens   *service.TokenService
	settings *repository.SettingsRepository
}

func NewAdminHandler(db *pgxpool.Pool, apiKey string, tokens *service.TokenService) *AdminHandler {
	return &AdminHandler{
		apiKey:   apiKey,
		tokens:   tokens,
		settings: repository.NewSettingsRepository(db),
	}
}

// RequireKey guards admin routes with the X-Admin-Key header.
func (h *AdminHandler) RequireKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.apiKey == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin api disabled"})
			return
		}
		key := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

type issueTokenRequest struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

func (h *AdminHandler) IssueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.BindJSON(&req); err != nil || req.Ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	t, err := h.tokens.IssueFungible(c.Request.Context(), req.Ticker, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": t.ID})
}

type issueCollectionRequest struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	// Binding stores the new collection id under a settings key, e.g.
	// character_collection_id.
	Binding string `json:"binding"`
}

func (h *AdminHandler) IssueCollection(c *gin.Context) {
	var req issueCollectionRequest
	if err := c.BindJSON(&req); err != nil || req.Ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	t, err := h.tokens.IssueCollection(ctx, req.Ticker, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue collection"})
		return
	}

	if req.Binding != "" {
		if err := h.settings.Set(ctx, req.Binding, t.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to bind collection"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"collection": t.ID})
}

type faucetRequest struct {
	Address string `json:"address"`
	Token   string `json:"token"`
	Amount  int64  `json:"amount"`
}

// Faucet mints fungible tokens to an address, for bootstrap and testing
func (h *AdminHandler) Faucet(c *gin.Context) {
	var req faucetRequest
	if err := c.BindJSON(&req); err != nil || req.Address == "" || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.tokens.Mint(c.Request.Context(), req.Address, req.Token, req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type settingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetSetting writes one settings row: contract bindings, collection ids
// or mint periods.
func (h *AdminHandler) SetSetting(c *gin.Context) {
	var req settingRequest
	if err := c.BindJSON(&req); err != nil || req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.settings.Set(c.Request.Context(), req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store setting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
