package http

import (
	"os"
	"strconv"
	"time"

	"crafting_arena/internal/config"
	"crafting_arena/internal/http/handlers"
	"crafting_arena/internal/http/middleware"
	"crafting_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the whole HTTP surface: auth, deposits, crafting
// actions, arena, NFT metadata, admin and the event feed.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, h *handlers.Handler, admin *handlers.AdminHandler, hub *ws.Hub, version string) {
	healthHandler := handlers.NewHealthHandler(db, version)

	// read limits from env, with safe defaults
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	actionRL := middleware.ActionRateLimit(cfg.ActionRateLimit, time.Duration(cfg.ActionRateWindow)*time.Second)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))

	// Auth
	v1.POST("/auth", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Auth)

	// Account
	v1.GET("/me", middleware.JWTAuth(), h.Me)
	v1.GET("/me/history", middleware.JWTAuth(), h.History)

	// Deposit ledger
	v1.POST("/deposits", middleware.JWTAuth(), h.Deposit)
	v1.GET("/deposits", middleware.JWTAuth(), h.Deposits)

	// Character actions (per-address action rate limit)
	v1.POST("/characters/mint", middleware.JWTAuth(), actionRL, h.MintCitizen)
	v1.POST("/characters/claim", middleware.JWTAuth(), actionRL, h.ClaimCitizen)
	v1.POST("/characters/upgrade", middleware.JWTAuth(), actionRL, h.UpgradeCitizen)
	v1.POST("/characters/upgrade-soldier", middleware.JWTAuth(), actionRL, h.UpgradeSoldier)

	// Tool actions
	v1.POST("/tools/shield/mint", middleware.JWTAuth(), actionRL, h.MintShield)
	v1.POST("/tools/shield/claim", middleware.JWTAuth(), actionRL, h.ClaimShield)
	v1.POST("/tools/sword/mint", middleware.JWTAuth(), actionRL, h.MintSword)
	v1.POST("/tools/sword/claim", middleware.JWTAuth(), actionRL, h.ClaimSword)

	// Resource actions
	v1.POST("/resources/transform", middleware.JWTAuth(), actionRL, h.CreateOre)
	v1.POST("/resources/stake", middleware.JWTAuth(), actionRL, h.Stake)
	v1.POST("/resources/mint", middleware.JWTAuth(), actionRL, h.MintResources)
	v1.POST("/resources/claim", middleware.JWTAuth(), actionRL, h.ClaimResources)

	// Arena
	v1.POST("/arena/games", middleware.JWTAuth(), actionRL, h.CreateGame)
	v1.POST("/arena/games/:id/accept", middleware.JWTAuth(), actionRL, h.AcceptGame)
	v1.GET("/arena/games", h.OpenGames)
	v1.GET("/arena/games/completed", h.CompletedGames)

	// NFT metadata view (public)
	v1.GET("/nfts/:collection/:nonce", h.NFT)

	// Admin surface
	adminGroup := r.Group("/admin")
	adminGroup.Use(admin.RequireKey())
	{
		adminGroup.POST("/tokens", admin.IssueToken)
		adminGroup.POST("/collections", admin.IssueCollection)
		adminGroup.POST("/faucet", admin.Faucet)
		adminGroup.POST("/settings", admin.SetSetting)
	}

	// Arena event feed
	r.GET("/ws", h.WS(hub))
}
