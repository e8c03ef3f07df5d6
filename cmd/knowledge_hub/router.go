package main

import (
	"log/slog"
	"slices"
	"time"

	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/SscSPs/knowledge_hub/internal/handlers"
	"github.com/SscSPs/knowledge_hub/internal/middleware"
	"github.com/SscSPs/knowledge_hub/internal/platform/config"
	"github.com/SscSPs/knowledge_hub/internal/platform/observability"
	"github.com/SscSPs/knowledge_hub/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

func newRouter(cfg *config.Config, services *portssvc.ServiceContainer, tracker utils.EventTracker, logger *slog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.MaxUploadMemory > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadMemory
	}

	// Global middleware (logging, recovery, CORS, analytics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		observability.RecoveryMiddleware(logger),
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
		middleware.AnalyticsMiddleware(tracker),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	var loginLimiter *limiter.Limiter
	if cfg.LoginRateLimit != "" {
		l, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
		if err != nil {
			return nil, err
		}
		loginLimiter = l
	}

	handlers.RegisterRoutes(r, cfg, services, loginLimiter)
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
