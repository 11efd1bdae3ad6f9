package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"peerlend/internal/auth"
	"peerlend/internal/config"
	"peerlend/internal/database"
	"peerlend/internal/handlers"
	"peerlend/internal/jobs"
	"peerlend/internal/repository"
	"peerlend/internal/services"
	"peerlend/internal/starknet"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository
	repo := repository.NewRepository(database.GetDB())

	// Initialize Starknet client
	chain := starknet.NewClient(
		cfg.Starknet.Network,
		cfg.Starknet.RPCURL,
		cfg.Starknet.ProtocolAddress,
	)

	// Token address -> symbol table
	tokens, err := services.NewTokenTable(cfg.TokenAddresses())
	if err != nil {
		log.Fatalf("Failed to build token table: %v", err)
	}

	// Initialize services
	userService := services.NewUserService(repo)
	authService := services.NewAuthService(userService)
	marketService := services.NewMarketService(chain, tokens, cfg.App.PageSize)
	proposalService := services.NewProposalService(chain, repo, tokens)
	positionService := services.NewPositionService(marketService, tokens)
	notificationService := services.NewNotificationService(repo)
	transactionService := services.NewTransactionService(repo)
	activityService := services.NewActivityService(repo)
	protocolService := services.NewProtocolService(repo)
	priceService := services.NewPriceService(time.Duration(cfg.App.PriceTTLMinutes) * time.Minute)

	// Collateral gate in front of every lending action
	gate := services.NewCollateralGate(
		proposalService,
		proposalService,
		decimal.NewFromFloat(cfg.App.CollateralMultiple),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	marketHandler := handlers.NewMarketHandler(marketService)
	actionHandler := handlers.NewActionHandler(gate, proposalService)
	positionHandler := handlers.NewPositionHandler(positionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, activityService)
	protocolHandler := handlers.NewProtocolHandler(protocolService)
	priceHandler := handlers.NewPriceHandler(priceService)

	// Start the proposal feed polling job
	refresher := jobs.NewFeedRefresher(marketService)
	refresher.Start(time.Duration(cfg.App.FeedRefreshSeconds) * time.Second)
	log.Println("Feed refresher started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000", // Local development
		"http://localhost:3001",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:3001",
	}
	// Add additional frontend URL from environment if provided
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	router.POST("/api/auth/connect", authHandler.Connect)

	// Public protocol aggregate routes
	router.GET("/api/protocol-data", protocolHandler.GetProtocolData)
	router.GET("/api/prices", priceHandler.GetPrices)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// User endpoints
		api.GET("/users", userHandler.ListUsers)
		api.GET("/users/me", userHandler.GetProfile)
		api.PUT("/users/me", userHandler.CompleteProfile)

		// Market endpoints
		api.GET("/market", marketHandler.GetMarket)
		api.POST("/market/refresh", marketHandler.Refresh)

		// Action endpoints (collateral-gated)
		api.POST("/actions", actionHandler.SubmitAction)
		api.POST("/actions/deposit", actionHandler.CompleteDeposit)
		api.GET("/actions/pending", actionHandler.GetPending)
		api.DELETE("/actions/pending", actionHandler.AbandonDeposit)
		api.GET("/assets/overview", actionHandler.GetAssetOverview)

		// Position endpoints
		api.GET("/positions", positionHandler.GetPositions)

		// Notification endpoints
		api.POST("/notifications", notificationHandler.CreateNotification)
		api.GET("/notifications", notificationHandler.ListNotifications)
		api.DELETE("/notifications/:id", notificationHandler.DeleteNotification)

		// Transaction ledger endpoints
		api.POST("/transactions", transactionHandler.RecordTransaction)
		api.GET("/transactions", transactionHandler.ListTransactions)
		api.GET("/transactions/activity", transactionHandler.GetActivity)

		// Protocol aggregate updates
		api.POST("/protocol-data", protocolHandler.ApplyDelta)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	refresher.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
