package main

import (
	"context"
	"log"
	"os"

	"crafting_arena/internal/db"
	"crafting_arena/internal/domain"
	"crafting_arena/internal/repository"
	"crafting_arena/internal/service"
)

// Seeds a development database: issues the resource tokens and NFT
// collections, binds the collections, mints starter resources to a dev
// account and prints its session token.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	accounts := repository.NewAccountRepository(pool)
	settings := repository.NewSettingsRepository(pool)
	tokens := service.NewTokenService(pool)

	devAddress := os.Getenv("DEV_ADDRESS")
	if devAddress == "" {
		devAddress = "dev:player1"
	}
	if err := accounts.Ensure(ctx, devAddress, false); err != nil {
		log.Fatalf("create dev account: %v", err)
	}

	fungibles := []struct {
		ticker string
		name   string
		amount int64
	}{
		{domain.WoodTicker, "Wood", 1000},
		{domain.FoodTicker, "Food", 1000},
		{domain.StoneTicker, "Stone", 1000},
		{domain.GoldTicker, "Gold", 1000},
		{domain.OreTicker, "Ore", 100},
	}
	for _, f := range fungibles {
		t, err := tokens.IssueFungible(ctx, f.ticker, f.name)
		if err != nil {
			log.Fatalf("issue %s: %v", f.ticker, err)
		}
		if err := tokens.Mint(ctx, devAddress, t.ID, f.amount); err != nil {
			log.Fatalf("mint %s: %v", t.ID, err)
		}
		log.Printf("issued %s, minted %d to %s", t.ID, f.amount, devAddress)
	}

	characters, err := tokens.IssueCollection(ctx, domain.CharacterCollectionTicker, domain.CharacterCollectionName)
	if err != nil {
		log.Fatalf("issue character collection: %v", err)
	}
	if err := settings.Set(ctx, service.SettingCharacterCollection, characters.ID); err != nil {
		log.Fatalf("bind character collection: %v", err)
	}

	toolsCol, err := tokens.IssueCollection(ctx, domain.ToolsCollectionTicker, domain.ToolsCollectionName)
	if err != nil {
		log.Fatalf("issue tools collection: %v", err)
	}
	if err := settings.Set(ctx, service.SettingToolsCollection, toolsCol.ID); err != nil {
		log.Fatalf("bind tools collection: %v", err)
	}
	log.Printf("collections: %s %s", characters.ID, toolsCol.ID)

	service.InitJWT()
	token, err := service.GenerateJWT(devAddress)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	log.Printf("address=%s token=%s", devAddress, token)
}
