package services

import (
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/SscSPs/knowledge_hub/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, verifier portssvc.CredentialVerifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Token service first, the user service issues pairs through it
	container.Token = NewTokenService(TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		Issuer:        cfg.JWTIssuer,
		AccessTTL:     cfg.JWTExpiryDuration,
		RefreshTTL:    cfg.RefreshTokenExpiryDuration,
	}, repos.UsedTokenRepo)

	container.User = NewUserService(repos.UserRepo, verifier, container.Token)

	container.Namespace = NewNamespaceService(
		repos.ObjectStore,
		WithAllowedFileTypes(cfg.AllowedFileTypes),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TokenSvcFacade   = (*tokenService)(nil)
	_ portssvc.UserSvcFacade    = (*userService)(nil)
	_ portssvc.NamespaceManager = (*namespaceService)(nil)
)
