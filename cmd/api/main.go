package main

import (
	"fmt"
	"net/http"
	"os"
	"spentra/internal/config"
	"spentra/internal/database"
	"spentra/internal/handlers"
	"spentra/internal/logger"
	"spentra/internal/mailer"
	"spentra/internal/middleware"
	"spentra/internal/payments"
	"spentra/internal/realtime"
	"spentra/internal/services"
	"spentra/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "spentra/internal/docs" // Import swagger docs
)

// @title           Spentra API
// @version         1.0
// @description     Spentra is a personal finance backend for tracking income and expenses, managing a monthly budget, and receiving real-time budget alerts.

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

	// Register custom request validators
	validator.Register()

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

	// Real-time notification hub
	hub := realtime.NewHub()

	// Payment gateways and mail
	stripeGateway := payments.NewStripeGateway(appConfig)
	esewaGateway := payments.NewEsewaGateway(appConfig)
	mailSender := mailer.New(appConfig)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	otpService := services.NewOTPService(db, mailSender)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	notificationService := services.NewNotificationService(db)
	alertService := services.NewAlertService(db, hub)
	summaryService := services.NewSummaryService(db)
	paymentService := services.NewPaymentService(db, stripeGateway, esewaGateway)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, otpService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, alertService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(summaryService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, auditService)
	wsHandler := handlers.NewWebSocketHandler(hub)

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

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/password-reset", authHandler.RequestPasswordReset)
	auth.POST("/password-reset/verify", authHandler.VerifyResetOTP)
	auth.POST("/password-reset/confirm", authHandler.ResetPassword)

	// WebSocket notification stream (token carried as query parameter)
	v1.GET("/ws/notifications", wsHandler.Notifications)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/auth/profile", authHandler.GetProfile)
	protected.PUT("/auth/profile", authHandler.UpdateProfile)
	protected.POST("/auth/change-password", authHandler.ChangePassword)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budget := protected.Group("/budget")
	budget.PUT("", budgetHandler.SetBudget)
	budget.GET("", budgetHandler.GetBudget)
	budget.GET("/analysis", budgetHandler.GetBudgetAnalysis)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)

	// Payment routes
	paymentRoutes := protected.Group("/payments")
	paymentRoutes.POST("/stripe", paymentHandler.CreateStripePayment)
	paymentRoutes.POST("/stripe/:id/confirm", paymentHandler.ConfirmStripePayment)
	paymentRoutes.POST("/esewa", paymentHandler.InitiateEsewaPayment)
	paymentRoutes.GET("/esewa/verify", paymentHandler.VerifyEsewaPayment)
	paymentRoutes.GET("", paymentHandler.GetPayments)

	// Dashboard routes
	protected.GET("/dashboard/summary", dashboardHandler.GetSummary)

	log.Infof("Starting Spentra backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
