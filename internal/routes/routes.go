// Package routes defines HTTP routes for the blog service.
package routes

import (
	"net/http"
	"time"

	"github.com/amitkhot2001/blogs/docs"
	"github.com/amitkhot2001/blogs/internal/config"
	"github.com/amitkhot2001/blogs/internal/handlers"
	"github.com/amitkhot2001/blogs/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups every handler the router serves.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Blog   *handlers.BlogHandler
	Public *handlers.PublicHandler
	Health *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, verifier middleware.TokenVerifier, cfg *config.Config, log *logrus.Logger) {
	router.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			middleware.Entry(c, log).WithField("panic", recovered).Error("handler panicked")
			handlers.RespondError(c, http.StatusInternalServerError, "Internal server error")
		}),
		middleware.RequestID(log),
		middleware.RequestLogger(log),
		middleware.Metrics(),
	)
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	router.Use(middleware.OriginGuard(middleware.OriginGuardConfig{AllowedOrigins: cfg.AllowedOrigins}))

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/request-otp", h.Auth.RequestOTP)
		api.POST("/verify-otp", h.Auth.VerifyOTP)
		api.POST("/login", h.Auth.Login)

		api.GET("/public-blogs", h.Public.List)
		api.GET("/search-suggestions", h.Public.Suggestions)
		api.GET("/blog/:id", h.Public.Detail)
	}

	authed := api.Group("", middleware.Authenticate(verifier, log))
	{
		authed.GET("/user/me", h.Auth.Me)

		authed.POST("/blogs", h.Blog.Create)
		authed.GET("/fetch-blogs", h.Blog.ListMine)
		authed.GET("/blogs/:encodedId", h.Blog.Get)
		authed.PUT("/blogs/:encodedId", h.Blog.Update)
		authed.DELETE("/blogs/:encodedId", h.Blog.Delete)
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
