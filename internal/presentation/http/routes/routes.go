package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gokmen-54/nalburos-web-deploy/internal/config"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/handler"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/middleware"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Sale     *handler.SaleHandler
	Payment  *handler.PaymentHandler
	Sync     *handler.SyncHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
	Logger     *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
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

		// Per-actor rate limiter
		rateLimiter := middleware.NewActorRateLimiter(middleware.RateLimiterConfig{
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
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile
	protected.GET("/profile", h.Auth.Profile)

	// Sale lifecycle
	sales := protected.Group("/sales")
	{
		sales.POST("", h.Sale.CreateDraft)
		sales.GET("", h.Sale.List)
		sales.GET("/draft", h.Sale.GetOpenDraft)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/lines", h.Sale.AddLine)
		sales.PATCH("/:id/lines/:lineId", h.Sale.UpdateLine)
		sales.PUT("/:id/discount", h.Sale.SetDiscount)
		sales.POST("/:id/finalize", h.Sale.Finalize)
		sales.POST("/:id/payments", h.Payment.Add)
		sales.GET("/:id/payments", h.Payment.List)

		// Status markers and corrections need a supervisor role
		supervisor := middleware.RequireRole(enum.RoleOwner, enum.RoleManager)
		sales.POST("/:id/void", supervisor, h.Sale.Void)
		sales.POST("/:id/refund", supervisor, h.Sale.Refund)
	}

	// Payment corrections and cash drawer
	payments := protected.Group("/payments")
	{
		payments.POST("/:paymentId/reverse",
			middleware.RequireRole(enum.RoleOwner, enum.RoleManager),
			h.Payment.Reverse)
	}
	protected.GET("/cashbook", h.Payment.Cashbook)

	// Offline sync queue
	sync := protected.Group("/sync")
	{
		sync.GET("/events", h.Sync.List)
		sync.POST("/events", h.Sync.Sync)
	}

	// Catalog and stock
	products := protected.Group("/products")
	{
		products.POST("", middleware.RequireRole(enum.RoleOwner, enum.RoleManager, enum.RoleWarehouse), h.Product.Create)
		products.GET("", h.Product.Catalog)
		products.GET("/:id", h.Product.Get)
		products.GET("/:id/movements", h.Product.Movements)
	}

	// Customer accounts
	customers := protected.Group("/customers")
	{
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.GET("/:id/entries", h.Customer.Entries)
	}
}
