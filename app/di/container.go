package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"study-auth/app/config"
	"study-auth/app/driver/kratos"
	"study-auth/app/driver/postgres"
	"study-auth/app/gateway"
	"study-auth/app/infrastructure/cache"
	"study-auth/app/port"
	"study-auth/app/rest"
	"study-auth/app/rest/handlers"
	"study-auth/app/usecase"
)

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Drivers
	DB           *postgres.DB
	KratosClient *kratos.Client

	// Infrastructure
	Events       *gateway.SessionEventHub
	TokenStore   *gateway.TokenStore
	ProfileCache *cache.ProfileCache

	// Gateways and repositories
	Identity port.IdentityGateway
	Profiles port.ProfileRepository

	// Usecases
	Reconciler *usecase.SessionReconciler
	Refresher  *gateway.SessionRefresher
}

// NewContainer creates and initializes a new dependency injection container.
// The reconciler and refresher are constructed but not started; call Start.
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: logger,
	}

	// Initialize drivers
	var err error

	container.DB, err = postgres.NewConnection(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	container.KratosClient, err = kratos.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Kratos client: %w", err)
	}

	// Initialize infrastructure
	container.Events = gateway.NewSessionEventHub(logger)
	container.TokenStore = gateway.NewTokenStore(cfg.SessionTokenFile, logger)
	container.ProfileCache = cache.NewProfileCache(cfg.ProfileCacheTTL)

	// Initialize gateways and repositories
	container.Identity = gateway.NewIdentityGateway(container.KratosClient, container.TokenStore, container.Events, logger)
	container.Profiles = postgres.NewProfileRepository(container.DB.Pool(), logger)

	// Initialize usecases
	container.Reconciler = usecase.NewSessionReconciler(
		container.Identity,
		container.Profiles,
		container.Events,
		container.ProfileCache,
		logger,
		usecase.ReconcilerOptions{
			ProbeTimeout:   cfg.ProbeTimeout,
			DebounceWindow: cfg.DebounceWindow,
		},
	)
	container.Refresher = gateway.NewSessionRefresher(container.Identity, container.Events, cfg.RefreshInterval, logger)

	logger.Info("container initialized")

	return container, nil
}

// Start launches the session reconciliation loop and the background
// refresher.
func (c *Container) Start(ctx context.Context) {
	c.Reconciler.Start(ctx)
	c.Refresher.Start()
}

// CreateRouter creates and returns a fully configured Echo router
func (c *Container) CreateRouter() *echo.Echo {
	routerConfig := rest.RouterConfig{
		Logger:   c.Logger,
		Sessions: c.Reconciler,
		Profiles: c.Profiles,
		Checks: map[string]handlers.Checker{
			"database": c.DB.HealthCheck,
			"kratos":   c.KratosClient.HealthCheck,
		},
		GateTimeout: c.Config.GateTimeout,
		EnableDebug: c.Config.LogLevel == "debug",
	}

	return rest.NewRouter(routerConfig)
}

// Close stops background workers and releases all resources
func (c *Container) Close() error {
	if c.Refresher != nil {
		c.Refresher.Stop()
	}
	if c.Reconciler != nil {
		c.Reconciler.Stop()
	}
	if c.ProfileCache != nil {
		c.ProfileCache.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}

	c.Logger.Info("container closed")
	return nil
}
