package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	PlantNetAPIKey  string
	PlantNetBaseURL string

	GeminiAPIKey string
	GeminiModel  string

	JWTSecret string

	PendingScanTTL  time.Duration
	FunFactCacheTTL time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "tr33_scans"),

		PlantNetAPIKey:  os.Getenv("PLANTNET_API_KEY"),
		PlantNetBaseURL: getEnv("PLANTNET_BASE_URL", "https://my-api.plantnet.org/v2/identify/all"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
	}

	var err error
	cfg.PendingScanTTL, err = parseDuration(getEnv("PENDING_SCAN_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PENDING_SCAN_TTL: %w", err)
	}
	cfg.FunFactCacheTTL, err = parseDuration(getEnv("FUN_FACT_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid FUN_FACT_CACHE_TTL: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
