package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/MatrixDriver/neuromem/internal/handler"
	"github.com/MatrixDriver/neuromem/internal/httperr"
	"github.com/MatrixDriver/neuromem/internal/middleware"
	"github.com/MatrixDriver/neuromem/pkg/config"
	"github.com/MatrixDriver/neuromem/pkg/database"
	"github.com/MatrixDriver/neuromem/pkg/embedding"
	"github.com/MatrixDriver/neuromem/pkg/logger"
	"github.com/MatrixDriver/neuromem/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting memory service...", zap.String("environment", cfg.Server.Env))

	// Initialize database (includes pgvector extension and migrations)
	if err := database.InitDB(cfg, log); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Initialize the embedding client used by memory handlers
	handler.InitMemoryHandler(embedding.NewClient(&cfg.Embedding))
	log.Info("Embedding client initialized",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httperr.EchoErrorHandler

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.APIKeyAuthMiddleware)

	// Public routes - no authentication required
	e.GET("/", handler.Root)
	e.GET("/v1/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.POST("/v1/tenants/register", handler.RegisterTenant)

	// Authenticated routes - tenant identity resolved from the API key
	v1 := e.Group("/v1")

	preferences := v1.Group("/preferences")
	preferences.POST("", handler.SetPreference)
	preferences.GET("", handler.ListPreferences)
	preferences.GET("/:key", handler.GetPreference)
	preferences.DELETE("/:key", handler.DeletePreference)

	v1.POST("/memories", handler.AddMemory)
	v1.POST("/search", handler.SearchMemories)
	v1.GET("/users/:userId/memories", handler.GetUserMemoriesOverview)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
