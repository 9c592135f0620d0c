package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/tillpoint/billing-api/internal/application/service"
	"github.com/tillpoint/billing-api/internal/config"
	"github.com/tillpoint/billing-api/internal/infrastructure/database"
	"github.com/tillpoint/billing-api/internal/infrastructure/repository"
	"github.com/tillpoint/billing-api/internal/presentation/http/handler"
	"github.com/tillpoint/billing-api/internal/presentation/http/routes"
	"github.com/tillpoint/billing-api/pkg/oauth"
	"github.com/tillpoint/billing-api/pkg/queue"
	"github.com/tillpoint/billing-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	denomRepo := repository.NewDenominationRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
	})

	// Connect to the invoice queue. Settlement works without it; invoices
	// just go undelivered until the broker is back.
	var notifier service.InvoiceNotifier
	queueClient, err := queue.Dial(cfg.Queue.URL, cfg.Queue.InvoiceQueue)
	if err != nil {
		log.Printf("Warning: invoice queue unavailable, invoices will not be sent: %v", err)
	} else {
		defer queueClient.Close()
		notifier = queueClient
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, googleOAuthService)
	productService := service.NewProductService(productRepo)
	tillService := service.NewTillService(denomRepo)
	billingService := service.NewBillingService(db, denomRepo, purchaseRepo, notifier)
	purchaseService := service.NewPurchaseService(purchaseRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Product:      handler.NewProductHandler(productService),
		Denomination: handler.NewDenominationHandler(tillService),
		Billing:      handler.NewBillingHandler(billingService),
		Purchase:     handler.NewPurchaseHandler(purchaseService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
