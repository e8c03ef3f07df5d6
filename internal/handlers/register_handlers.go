package handlers

import (
	"github.com/SscSPs/knowledge_hub/cmd/docs"
	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/SscSPs/knowledge_hub/internal/middleware"
	"github.com/SscSPs/knowledge_hub/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	loginLimiter *limiter.Limiter,
) {
	r.GET("/", getHome)
	r.GET("/health", getHealth)

	// Public authentication routes
	registerAuthRoutes(r, services.User, loginLimiter)

	// Routes that need a valid access token
	authenticated := r.Group("/user", middleware.AuthMiddleware(services.Token))
	registerUserRoutes(authenticated, services.User)

	setupStorageRoutes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupStorageRoutes mounts the storage routes at the root, behind the auth
// middleware when StorageRequireAuth is set.
func setupStorageRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	var storage gin.IRoutes = r
	if cfg.StorageRequireAuth {
		storage = r.Group("/", middleware.AuthMiddleware(services.Token))
	}
	registerStorageRoutes(storage, services.Namespace)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
