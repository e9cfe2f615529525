package config

import (
	"os"
	"strconv"

	"crafting_arena/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string
	AuthSecret  string
	AdminAPIKey string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Contract addresses registered on the call bus
	InterfaceAddress         string
	CharacterAddress         string
	ToolsAddress             string
	ResourceTransformAddress string
	ArenaAddress             string
	ResourceMintAddress      string

	// Resource mint accrual settings
	MintRoundsInterval int64
	MintStakeThreshold int64

	// Action limits
	ActionRateLimit  int
	ActionRateWindow int
}

// Load reads configuration from the environment
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	authSecret := os.Getenv("AUTH_SECRET")
	if authSecret == "" {
		logger.Fatal("AUTH_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	mintRoundsInterval := int64(600)
	if v := os.Getenv("MINT_ROUNDS_INTERVAL"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			mintRoundsInterval = n
		}
	}

	mintStakeThreshold := int64(100)
	if v := os.Getenv("MINT_STAKE_THRESHOLD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			mintStakeThreshold = n
		}
	}

	actionRateLimit := 60
	if v := os.Getenv("ACTION_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			actionRateLimit = n
		}
	}

	actionRateWindow := 60
	if v := os.Getenv("ACTION_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			actionRateWindow = n
		}
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: dbURL,
		JWTSecret:   jwtSecret,
		AuthSecret:  authSecret,
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		InterfaceAddress:         getenvDefault("INTERFACE_CONTRACT_ADDRESS", "sc:interface"),
		CharacterAddress:         getenvDefault("CHARACTER_CONTRACT_ADDRESS", "sc:character"),
		ToolsAddress:             getenvDefault("TOOLS_CONTRACT_ADDRESS", "sc:tools"),
		ResourceTransformAddress: getenvDefault("RESOURCE_TRANSFORM_CONTRACT_ADDRESS", "sc:resource-transform"),
		ArenaAddress:             getenvDefault("ARENA_CONTRACT_ADDRESS", "sc:arena"),
		ResourceMintAddress:      getenvDefault("RESOURCE_MINT_CONTRACT_ADDRESS", "sc:resource-mint"),

		MintRoundsInterval: mintRoundsInterval,
		MintStakeThreshold: mintStakeThreshold,

		ActionRateLimit:  actionRateLimit,
		ActionRateWindow: actionRateWindow,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
