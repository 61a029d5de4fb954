package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"antigravity/paywall/internal/config"
	"antigravity/paywall/internal/handler/middleware"
	"antigravity/paywall/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authService service.AuthService,
	authHandler *AuthHandler,
	productHandler *ProductHandler,
	checkoutHandler *CheckoutHandler,
	webhookHandler *WebhookHandler,
	meHandler *MeHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/products", productHandler.ListActive)
		api.POST("/webhooks/creem", webhookHandler.Creem)

		auth := api.Group("/v1/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.Auth(authService))
	{
		protected.GET("/me", meHandler.Me)
		protected.POST("/checkout", checkoutHandler.Create)
	}

	return r
}
