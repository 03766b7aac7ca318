// Package httpapi assembles the gin engine serving the authentication API.
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"softwire/internal/config"
	"softwire/internal/microservices/http-api/dto"
	"softwire/internal/microservices/http-api/handler"
	"softwire/internal/microservices/http-api/middleware"
	"softwire/internal/microservices/http-api/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires middleware and routes. limiter backs the register and
// login rate limit.
func NewRouter(cfg *config.Config, authService service.AuthService, limiter middleware.Limiter, logger *zap.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader, "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	authLimit := middleware.RateLimit(limiter, middleware.RateLimitOptions{
		Limit:    cfg.RateLimitMax,
		Window:   cfg.RateLimitWindow,
		FailOpen: cfg.RateLimitFailOpen,
		Scope:    "auth",
	}, logger)

	api := r.Group("/api")
	handler.NewAuthHandler(authService, logger).RegisterRoutes(api, authLimit)
	api.GET("/health", handler.NewHealthHandler(nil).Health)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.MessageResponse{Success: false, Message: "Not found"})
	})

	return r, nil
}
