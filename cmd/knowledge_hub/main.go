package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/adapters/objectstore"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	"github.com/SscSPs/knowledge_hub/internal/core/services"
	"github.com/SscSPs/knowledge_hub/internal/platform/config"
	"github.com/SscSPs/knowledge_hub/internal/platform/observability"
	"github.com/SscSPs/knowledge_hub/internal/repositories/database/pgsql"
	"github.com/SscSPs/knowledge_hub/internal/repositories/memory"
	"github.com/SscSPs/knowledge_hub/internal/utils"
	"github.com/SscSPs/knowledge_hub/internal/validation"
	"github.com/SscSPs/knowledge_hub/pkg/database"
)

// @title Knowledge Hub API
// @version 1.0
// @description User accounts and folder based document storage on top of an object store.

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	environment := "development"
	if cfg.IsProduction {
		environment = "production"
	}
	if err := observability.InitSentry(cfg.SentryDSN, environment); err != nil {
		logger.Error("Failed to initialize Sentry", slog.String("error", err.Error()))
	}
	defer observability.FlushSentry()

	if err := validation.RegisterGinValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repos portsrepo.RepositoryProvider
	if cfg.DatabaseURL == "" {
		logger.Warn("PGSQL_URL not set, users and used refresh tokens are kept in memory")
		repos = portsrepo.RepositoryProvider{
			UserRepo:      memory.NewUserRepository(),
			UsedTokenRepo: memory.NewUsedTokenRepository(),
		}
	} else {
		// Initialize database connection pool (for application use)
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)

		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Error("Failed to run database migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		repos = pgsql.NewRepositoryProvider(dbPool)
		if cfg.UsedTokenStore == config.UsedTokenStoreMemory {
			logger.Warn("Using in-memory used refresh token store; replay protection is per process")
			repos.UsedTokenRepo = memory.NewUsedTokenRepository()
		}
	}

	repos.ObjectStore, err = objectstore.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize object store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, utils.NewBcryptVerifier())

	if cfg.DefaultBucket != "" {
		if err := serviceContainer.Namespace.EnsureBucket(ctx, cfg.DefaultBucket); err != nil {
			logger.Error("Failed to ensure default bucket", slog.String("bucket", cfg.DefaultBucket), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	go services.RunUsedTokenSweeper(ctx, repos.UsedTokenRepo, cfg.UsedTokenSweepInterval, logger)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	router, err := newRouter(cfg, serviceContainer, posthogClient, logger)
	if err != nil {
		logger.Error("Failed to set up router", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}
