package routes

import (
	"log"
	"net/http"

	"firstline/internal/config"
	"firstline/internal/controllers"
	"firstline/internal/middleware"
	"firstline/internal/pkg/analyzer"
	"firstline/internal/pkg/supabase"
	"firstline/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// SetupRouter initializes all services, controllers, and API routes
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	authClient := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	hookAnalyzer := analyzer.New(cfg.OpenAIAPIKey)
	return SetupRouterWithClients(db, cfg, authClient, hookAnalyzer)
}

// SetupRouterWithClients wires the routes around explicitly constructed
// clients; tests pass clients bound to a mock transport.
func SetupRouterWithClients(db *gorm.DB, cfg *config.Config, authClient *supabase.AuthClient, hookAnalyzer *analyzer.HookAnalyzer) *gin.Engine {
	usageService := services.NewUsageService(db)

	// Persistence retries need Redis; without it the request path simply
	// logs and moves on.
	var queue *asynq.Client
	if cfg.RedisURL != "" {
		redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
		if err != nil {
			log.Printf("invalid REDIS_URL, persistence retries disabled: %v", err)
		} else {
			queue = asynq.NewClient(redisOpt)
		}
	}

	analysisController := controllers.AnalysisController{
		DB:       db,
		Auth:     authClient,
		Analyzer: hookAnalyzer,
		Usage:    usageService,
	}
	if queue != nil {
		analysisController.Queue = queue
	}
	usageController := controllers.UsageController{Usage: usageService}

	// Set up Gin router
	router := gin.Default()
	router.Use(middleware.CORS())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	// Group API routes under /api/v1
	api := router.Group("/api/v1")
	{
		// POST /api/v1/analyze
		// Scores one hook; auth runs inside the handler so input errors
		// are reported before token errors.
		api.POST("/analyze", analysisController.Analyze)

		// GET /api/v1/usage
		// Remaining-quota display for the signed-in user
		api.GET("/usage", middleware.AuthRequired(authClient), usageController.GetUsage)
	}

	return router
}
