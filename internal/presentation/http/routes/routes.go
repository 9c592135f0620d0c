package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tillpoint/billing-api/internal/config"
	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/internal/presentation/http/handler"
	"github.com/tillpoint/billing-api/internal/presentation/http/middleware"
	"github.com/tillpoint/billing-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Denomination *handler.DenominationHandler
	Billing      *handler.BillingHandler
	Purchase     *handler.PurchaseHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile
	protected.GET("/auth/profile", h.Auth.GetProfile)

	// Catalog
	registerProductRoutes(protected, h)

	// Till
	registerDenominationRoutes(protected, h)

	// Settlement
	protected.POST("/billing/settle", h.Billing.Settle)

	// Purchase history
	registerPurchaseRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.ListProducts)
		products.GET("/:code", h.Product.GetProduct)
		// Catalog writes are admin-only
		products.POST("", middleware.RequireRole(entity.RoleAdmin), h.Product.UpsertProduct)
		products.DELETE("/:code", middleware.RequireRole(entity.RoleAdmin), h.Product.DeleteProduct)
	}
}

func registerDenominationRoutes(protected *gin.RouterGroup, h *Handlers) {
	denominations := protected.Group("/denominations")
	{
		denominations.GET("", h.Denomination.ListDenominations)
		denominations.POST("", middleware.RequireRole(entity.RoleAdmin), h.Denomination.UpsertDenomination)
	}
}

func registerPurchaseRoutes(protected *gin.RouterGroup, h *Handlers) {
	purchases := protected.Group("/purchases")
	{
		purchases.GET("", h.Purchase.ListPurchases)
		purchases.GET("/:id", h.Purchase.GetPurchase)
	}
}
