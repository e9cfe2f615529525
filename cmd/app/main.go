package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crafting_arena/internal/callbus"
	"crafting_arena/internal/combat"
	"crafting_arena/internal/config"
	"crafting_arena/internal/db"
	httpServer "crafting_arena/internal/http"
	"crafting_arena/internal/http/handlers"
	"crafting_arena/internal/http/middleware"
	"crafting_arena/internal/logger"
	"crafting_arena/internal/repository"
	"crafting_arena/internal/service"
	"crafting_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")
	cfg := config.Load()
	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	ctx := context.Background()

	// Seed contract accounts and default bindings so a fresh database
	// is playable without manual admin calls.
	accounts := repository.NewAccountRepository(dbPool)
	settings := repository.NewSettingsRepository(dbPool)
	for _, addr := range []string{
		cfg.InterfaceAddress, cfg.CharacterAddress, cfg.ToolsAddress,
		cfg.ResourceTransformAddress, cfg.ArenaAddress, cfg.ResourceMintAddress,
	} {
		if err := accounts.Ensure(ctx, addr, true); err != nil {
			logger.Fatal("seed contract account", "address", addr, "error", err)
		}
	}
	seedBindings(ctx, settings, cfg)

	// Services and the call bus.
	tokens := service.NewTokenService(dbPool)
	nfts := service.NewNFTService(dbPool, tokens)
	bus := callbus.New(dbPool, tokens)

	iface := service.NewInterfaceService(dbPool, cfg.InterfaceAddress, bus, tokens)
	character := service.NewCharacterService(dbPool, cfg.CharacterAddress, tokens, nfts)
	tools := service.NewToolsService(dbPool, cfg.ToolsAddress, tokens, nfts)
	transform := service.NewTransformService(dbPool, cfg.ResourceTransformAddress, tokens)
	resourceMint := service.NewResourceMintService(dbPool, cfg.ResourceMintAddress, tokens, cfg.MintRoundsInterval, cfg.MintStakeThreshold)
	arena := service.NewArenaService(dbPool, cfg.ArenaAddress, tokens, nfts, combat.New())

	bus.Register(cfg.InterfaceAddress, iface)
	bus.Register(cfg.CharacterAddress, character)
	bus.Register(cfg.ToolsAddress, tools)
	bus.Register(cfg.ResourceTransformAddress, transform)
	bus.Register(cfg.ResourceMintAddress, resourceMint)
	bus.Register(cfg.ArenaAddress, arena)
	bus.RegisterCallback(service.ReconcileCallback, iface.Reconcile)
	bus.StartSweeper(ctx, time.Minute, 5*time.Minute)

	hub := ws.NewHub()
	arena.SetPublisher(hub)

	r := gin.Default()

	// CORS for a frontend on a different domain
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Key")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandler(dbPool, cfg.AuthSecret, tokens, nfts, iface, arena)
	admin := handlers.NewAdminHandler(dbPool, cfg.AdminAPIKey, tokens)
	httpServer.RegisterRoutes(r, dbPool, cfg, h, admin, hub, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Println("server started on port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	log.Println("server exited")
}

func seedBindings(ctx context.Context, settings *repository.SettingsRepository, cfg *config.Config) {
	defaults := map[string]string{
		service.SettingCharacterContract:         cfg.CharacterAddress,
		service.SettingToolsContract:             cfg.ToolsAddress,
		service.SettingResourceTransformContract: cfg.ResourceTransformAddress,
		service.SettingArenaContract:             cfg.ArenaAddress,
		service.SettingResourceMintContract:      cfg.ResourceMintAddress,
	}
	for key, value := range defaults {
		if err := settings.SetIfEmpty(ctx, key, value); err != nil {
			logger.Fatal("seed binding", "key", key, "error", err)
		}
	}
}
