package main

import (
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/tr33-app/tr33-backend/internal/config"
	"github.com/tr33-app/tr33-backend/internal/entity"
	"github.com/tr33-app/tr33-backend/internal/server"
	"github.com/tr33-app/tr33-backend/pkg/database"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(cfg, db, redisClient)

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.ScannedTree{},
	)
}

// connectRedis builds the client for the pending-scan store and the
// fun-fact cache. The pipeline cannot hold identified scans without it.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}

	return redis.NewClient(opts)
}
