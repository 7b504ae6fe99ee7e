package services

import (
	portsrepo "github.com/rovermark/agency_dashboard_app/internal/core/ports/repositories"
	portssvc "github.com/rovermark/agency_dashboard_app/internal/core/ports/services"
	"github.com/rovermark/agency_dashboard_app/internal/platform/config"
	"github.com/rovermark/agency_dashboard_app/pkg/warehouse"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, warehouseClient warehouse.Client) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Sync = NewSyncService(
		repos.AccountRepo,
		warehouseClient,
		WithSyncConcurrency(cfg.SyncConcurrency),
	)
	container.User = NewUserService(repos.UserRepo)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.SyncSvcFacade    = (*syncService)(nil)
	_ portssvc.UserSvcFacade    = (*userService)(nil)
)
