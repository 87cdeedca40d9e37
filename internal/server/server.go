package server

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/tr33-app/tr33-backend/internal/config"
	"github.com/tr33-app/tr33-backend/internal/jobs"
	"github.com/tr33-app/tr33-backend/internal/llm"
	"github.com/tr33-app/tr33-backend/internal/middleware"
	"github.com/tr33-app/tr33-backend/internal/plantnet"
	"github.com/tr33-app/tr33-backend/pkg/storage"

	factHttp "github.com/tr33-app/tr33-backend/internal/modules/fact/delivery/http"
	factService "github.com/tr33-app/tr33-backend/internal/modules/fact/service"

	identityHttp "github.com/tr33-app/tr33-backend/internal/modules/identity/delivery/http"
	identityRepo "github.com/tr33-app/tr33-backend/internal/modules/identity/repository"
	identityService "github.com/tr33-app/tr33-backend/internal/modules/identity/service"

	leaderboardHttp "github.com/tr33-app/tr33-backend/internal/modules/leaderboard/delivery/http"
	leaderboardRepo "github.com/tr33-app/tr33-backend/internal/modules/leaderboard/repository"
	leaderboardService "github.com/tr33-app/tr33-backend/internal/modules/leaderboard/service"

	scanHttp "github.com/tr33-app/tr33-backend/internal/modules/scan/delivery/http"
	scanRepo "github.com/tr33-app/tr33-backend/internal/modules/scan/repository"
	scanService "github.com/tr33-app/tr33-backend/internal/modules/scan/service"

	searchService "github.com/tr33-app/tr33-backend/internal/modules/search/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *jobs.Scheduler
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := identityRepo.NewUserRepository(db)
	identitySvc := identityService.NewIdentityService(userRepo, cfg.JWTSecret)
	identityHandler := identityHttp.NewIdentityHandler(identitySvc)

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Printf("Cloudinary not configured, scan images will not be stored: %v", err)
		imageStorage = nil
	}

	// Meilisearch is optional: without it the search endpoint degrades
	// to 503 and commits skip indexing.
	var searchSvc searchService.ScanSearchService
	if cfg.MeiliSearchHost != "" && cfg.MeiliMasterKey != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = searchService.NewScanSearchService(meiliClient)
	}

	identifier := plantnet.NewClient(cfg.PlantNetBaseURL, cfg.PlantNetAPIKey)

	scanRepository := scanRepo.NewScanRepository(db)
	pendingStore := scanRepo.NewPendingScanStore(redisClient)
	scanSvc := scanService.NewScanService(scanRepository, pendingStore, identifier, imageStorage, searchSvc, cfg.PendingScanTTL, cfg.CloudinaryUploadFolder)
	scanHandler := scanHttp.NewScanHandler(scanSvc, searchSvc)

	leaderboardRepository := leaderboardRepo.NewLeaderboardRepository(db)
	leaderboardSvc := leaderboardService.NewLeaderboardService(leaderboardRepository)
	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardSvc)

	var provider llm.Provider
	geminiProvider, err := llm.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Printf("Gemini not configured, fun facts will use the fallback: %v", err)
	} else {
		provider = geminiProvider
	}
	factSvc := factService.NewFactService(provider, redisClient, cfg.FunFactCacheTTL)
	factHandler := factHttp.NewFactHandler(factSvc)

	scheduler := jobs.NewScheduler(scanRepository, searchSvc)
	scheduler.Start()

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no session required)
	identity := api.Group("/identity")
	{
		identity.POST("/register", identityHandler.Register)
		identity.POST("/login", identityHandler.Login)
	}

	api.POST("/facts", factHandler.FunFact)
	api.GET("/leaderboard", authMiddleware.OptionalIdentity(), leaderboardHandler.GetLeaderboard)
	api.GET("/scans/search", scanHandler.Search)

	// Protected routes (session token required)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireIdentity())
	{
		protected.POST("/scans/identify", scanHandler.Identify)
		protected.POST("/scans/:scan_id/commit", scanHandler.Commit)
		protected.GET("/scans/me", scanHandler.MyCollection)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   scheduler,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	// The mobile webview calls from a capacitor:// origin, so the
	// default stays permissive like the old edge function.
	if allowedOrigins == "" || allowedOrigins == "*" {
		router.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:   []string{"Content-Length"},
			MaxAge:          12 * time.Hour,
		}))
		return
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(allowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
