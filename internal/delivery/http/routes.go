package http

import (
	"github.com/gin-gonic/gin"
	"github.com/priceai/backend/config"
	"github.com/priceai/backend/internal/domain"
	"github.com/priceai/backend/internal/infrastructure/auth"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, authService *auth.Service) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public search
		v1.GET("/search/:query", handler.Search)

		// Auth endpoints
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", handler.SignUp)
			authGroup.POST("/login", handler.Login)
			authGroup.POST("/logout", handler.Logout)
		}

		// User-scoped endpoints
		user := v1.Group("/")
		user.Use(AuthMiddleware(authService))
		{
			user.GET("/me", handler.Me)

			user.GET("/wishlist", handler.ListCollection(domain.FieldWishlist))
			user.POST("/wishlist", handler.ToggleCollection(domain.FieldWishlist))
			user.DELETE("/wishlist", handler.RemoveFromCollection(domain.FieldWishlist))

			user.GET("/cart", handler.ListCollection(domain.FieldCart))
			user.POST("/cart", handler.ToggleCollection(domain.FieldCart))
			user.DELETE("/cart", handler.RemoveFromCollection(domain.FieldCart))

			user.POST("/checkout", handler.Checkout)
			user.GET("/orders", handler.Orders)
			user.GET("/orders/:id/invoice", handler.Invoice)
		}

		// Admin endpoints
		admin := v1.Group("/admin")
		admin.Use(AuthMiddleware(authService), AdminMiddleware())
		{
			admin.GET("/users", handler.AdminListUsers)
		}
	}

	return router
}
