package main

import (
	"fmt"
	"net/http"
	"os"

	"propval/internal/config"
	"propval/internal/database"
	"propval/internal/handlers"
	"propval/internal/logger"
	"propval/internal/middleware"
	"propval/internal/services"
	"propval/internal/validator"
	"propval/internal/valuation"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "propval/internal/docs" // Import swagger docs
)

// @title           Propval API
// @version         1.0
// @description     Propval is a property valuation service that appraises real estate through market comparison, income capitalization, and cost replacement methods.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a service token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize the valuation engine and model registry
	var opts []valuation.Option
	if appConfig.GeneratorSeed != 0 {
		opts = append(opts, valuation.WithGenerator(valuation.NewSyntheticGenerator(appConfig.GeneratorSeed)))
	}
	engine := valuation.NewEngine(valuation.DefaultTables(), opts...)
	registry := valuation.NewRegistry(engine)

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	valuationService := services.NewValuationService(db, engine, auditService)
	modelService := services.NewModelService(registry, auditService)
	historyService := services.NewHistoryService(db)

	// Initialize handlers
	valuationHandler := handlers.NewValuationHandler(valuationService)
	modelHandler := handlers.NewModelHandler(modelService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Valuation routes
	valuations := v1.Group("/valuations")
	valuations.POST("", valuationHandler.PerformValuation)
	valuations.POST("/batch", valuationHandler.BatchValuation)
	valuations.POST("/sensitivity", valuationHandler.Sensitivity)

	// Model registry routes; mutations require a service token when
	// AUTH_ENABLED is set.
	models := v1.Group("/models")
	models.GET("", modelHandler.ListModels)
	models.GET("/:id", modelHandler.GetModel)
	models.GET("/:id/export", modelHandler.ExportModel)
	models.POST("/:id/calculate", modelHandler.CalculateWithModel)
	models.POST("/compare", modelHandler.CompareModels)

	modelWrites := models.Group("")
	modelWrites.Use(middleware.AuthMiddleware())
	modelWrites.POST("", modelHandler.RegisterModel)
	modelWrites.PUT("/:id", modelHandler.UpdateModel)
	modelWrites.DELETE("/:id", modelHandler.DeleteModel)
	modelWrites.POST("/:id/activate", modelHandler.ActivateModel)
	modelWrites.POST("/import", modelHandler.ImportModel)

	// History routes
	history := v1.Group("/history")
	history.GET("", historyHandler.ListHistory)
	history.GET("/:id", historyHandler.GetHistory)
	history.POST("/compare", historyHandler.CompareHistory)

	log.Infof("Starting Propval backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
