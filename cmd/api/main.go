package main

import (
	"fmt"
	"net/http"
	"os"

	"shallowfind/internal/config"
	"shallowfind/internal/database"
	"shallowfind/internal/handlers"
	"shallowfind/internal/logger"
	"shallowfind/internal/middleware"
	"shallowfind/internal/services"
	"shallowfind/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "shallowfind/internal/docs" // Import swagger docs
)

// @title           Shallowfind API
// @version         1.0
// @description     Shallowfind manages financial planning scenarios: investments, event series, and withdrawal strategies, with consistency validation across the scenario graph.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	scenarioService := services.NewScenarioService(db)
	shareService := services.NewShareService(db)
	investmentTypeService := services.NewInvestmentTypeService(db)
	investmentService := services.NewInvestmentService(db)
	eventSeriesService := services.NewEventSeriesService(db)
	strategyService := services.NewStrategyService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	scenarioHandler := handlers.NewScenarioHandler(scenarioService, auditService)
	shareHandler := handlers.NewShareHandler(shareService, auditService)
	investmentTypeHandler := handlers.NewInvestmentTypeHandler(investmentTypeService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, auditService)
	eventSeriesHandler := handlers.NewEventSeriesHandler(eventSeriesService, auditService)
	strategyHandler := handlers.NewStrategyHandler(strategyService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Scenario routes
	scenarios := protected.Group("/scenarios")
	scenarios.POST("", scenarioHandler.CreateScenario)
	scenarios.GET("", scenarioHandler.GetUserScenarios)
	scenarios.GET("/:id", scenarioHandler.GetScenarioByID)
	scenarios.PUT("/:id", scenarioHandler.UpdateScenario)
	scenarios.PATCH("/:id/status", scenarioHandler.UpdateScenarioStatus)
	scenarios.DELETE("/:id", scenarioHandler.DeleteScenario)

	// Scenario shares
	scenarios.POST("/:id/shares", shareHandler.CreateShare)
	scenarios.GET("/:id/shares", shareHandler.GetScenarioShares)
	protected.DELETE("/shares/:id", shareHandler.RevokeShare)

	// Investment types
	scenarios.POST("/:id/investment-types", investmentTypeHandler.CreateInvestmentType)
	scenarios.GET("/:id/investment-types", investmentTypeHandler.GetScenarioInvestmentTypes)
	scenarios.POST("/:id/investment-types/validate", investmentTypeHandler.ValidateScenarioInvestmentTypes)
	investmentTypes := protected.Group("/investment-types")
	investmentTypes.GET("/:id", investmentTypeHandler.GetInvestmentTypeByID)
	investmentTypes.PUT("/:id", investmentTypeHandler.UpdateInvestmentType)
	investmentTypes.DELETE("/:id", investmentTypeHandler.DeleteInvestmentType)

	// Investments
	scenarios.POST("/:id/investments", investmentHandler.CreateInvestment)
	scenarios.GET("/:id/investments", investmentHandler.GetScenarioInvestments)
	investments := protected.Group("/investments")
	investments.GET("/:id", investmentHandler.GetInvestmentByID)
	investments.PUT("/:id", investmentHandler.UpdateInvestment)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)

	// Event series
	scenarios.POST("/:id/event-series/income", eventSeriesHandler.CreateIncomeEvent)
	scenarios.POST("/:id/event-series/expense", eventSeriesHandler.CreateExpenseEvent)
	scenarios.POST("/:id/event-series/invest", eventSeriesHandler.CreateInvestEvent)
	scenarios.POST("/:id/event-series/rebalance", eventSeriesHandler.CreateRebalanceEvent)
	scenarios.GET("/:id/event-series", eventSeriesHandler.GetScenarioEventSeries)
	eventSeries := protected.Group("/event-series")
	eventSeries.GET("/:id", eventSeriesHandler.GetEventSeriesByID)
	eventSeries.PUT("/income/:id", eventSeriesHandler.UpdateIncomeEvent)
	eventSeries.PUT("/expense/:id", eventSeriesHandler.UpdateExpenseEvent)
	eventSeries.PUT("/invest/:id", eventSeriesHandler.UpdateInvestEvent)
	eventSeries.PUT("/rebalance/:id", eventSeriesHandler.UpdateRebalanceEvent)
	eventSeries.DELETE("/:id", eventSeriesHandler.DeleteEventSeries)

	// Strategies
	scenarios.POST("/:id/strategies", strategyHandler.CreateStrategy)
	scenarios.GET("/:id/strategies", strategyHandler.GetScenarioStrategies)
	strategies := protected.Group("/strategies")
	strategies.GET("/:id", strategyHandler.GetStrategyByID)
	strategies.PUT("/:id", strategyHandler.UpdateStrategy)
	strategies.DELETE("/:id", strategyHandler.DeleteStrategy)

	log.Infof("Starting Shallowfind backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
