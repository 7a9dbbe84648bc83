package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/bizportal/config"
	redisadapter "github.com/target/bizportal/internal/adapters/redis"
	"github.com/target/bizportal/internal/adapters/registrationapi"
	"github.com/target/bizportal/internal/core"
	"github.com/target/bizportal/internal/data"
	"github.com/target/bizportal/internal/devseed"
	"github.com/target/bizportal/internal/domain/access"
	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/observability/statsd"
	"github.com/target/bizportal/internal/ports"
	"github.com/target/bizportal/internal/service"
)

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	Auth         AuthBundle
	Guard        *service.GuardService
	Registration *service.RegistrationFlow
	Registrar    ports.Registrar
	Accounts     *service.AccountService
	Dashboard    *service.DashboardService
	Toasts       ports.NotificationSink

	Observability ObservabilityContainer
}

// ObservabilityContainer groups the optional telemetry sinks.
type ObservabilityContainer struct {
	MetricsSink statsd.Sink
	closer      func() error
}

// Close releases the metrics connection, if any.
func (o ObservabilityContainer) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer()
}

// ServiceDeps contains dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

type serviceRepositories struct {
	Users     *data.UserRepo
	Dashboard *data.DashboardRepo
	Cache     core.CacheRepository
}

func buildObservability(logger *slog.Logger, cfg config.MetricsConfig) ObservabilityContainer {
	if !cfg.IsEnabled() {
		return ObservabilityContainer{}
	}
	client, err := statsd.NewClient(statsd.Config{
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Warn("statsd disabled", "address", cfg.StatsdAddress, "error", err)
		return ObservabilityContainer{}
	}
	logger.Info("statsd metrics enabled", "address", cfg.StatsdAddress, "prefix", cfg.Prefix)
	return ObservabilityContainer{MetricsSink: client, closer: client.Close}
}

func buildRepositories(db *sql.DB, client redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		Users:     data.NewUserRepo(db),
		Dashboard: data.NewDashboardRepo(db),
	}
	if client != nil {
		repos.Cache = data.NewRedisCacheRepo(client)
	}
	return repos
}

// newRegistrar picks the remote registration service when one is configured
// and falls back to local accounts otherwise.
//
//nolint:ireturn // both implementations satisfy the port.
func newRegistrar(cfg config.RegistrationConfig, accounts *service.AccountService, logger *slog.Logger) ports.Registrar {
	if cfg.ServiceURL == "" {
		return accounts
	}
	client, err := registrationapi.NewClient(registrationapi.Config{URL: cfg.ServiceURL, Timeout: cfg.Timeout})
	if err != nil {
		logger.Warn("registration service unusable, registering locally", "error", err)
		return accounts
	}
	logger.Info("registering accounts through remote service", "url", cfg.ServiceURL)
	return client
}

func newDashboardService(
	cfg *config.AppConfig,
	repos *serviceRepositories,
	logger *slog.Logger,
) *service.DashboardService {
	opts := service.DashboardServiceOptions{
		Source: service.NewUserStatsSource(repos.Dashboard),
		Cache: service.DashboardCacheOptions{
			Repo:   repos.Cache,
			TTL:    cfg.Cache.DashboardTTL,
			Logger: logger,
		},
	}
	if cfg.IsDev {
		opts.Fallback = devseed.DemoStatsSource{}
	}
	return service.NewDashboardService(opts)
}

func guardRules(cfg config.GuardConfig) access.Rules {
	return access.Rules{
		SignInPath: cfg.SignInPath,
		Landing:    access.NewLandingMap(cfg.Landing, cfg.FallbackPath),
	}
}

// NewServices initializes all services with their dependencies.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("redis client is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	obs := buildObservability(logger, cfg.Metrics)
	repos := buildRepositories(deps.DB, deps.RedisClient)

	toasts := redisadapter.NewNotificationStore(redisadapter.NotificationStoreOptions{
		Client: deps.RedisClient,
		TTL:    cfg.UI.ToastTTL,
	})

	accounts := service.NewAccountService(service.AccountServiceOptions{
		Users:       repos.Users,
		DefaultRole: domainauth.ParseRole(cfg.Registration.DefaultRole),
		Logger:      logger,
	})
	registrar := newRegistrar(cfg.Registration, accounts, logger)

	auth := BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		RedisClient: deps.RedisClient,
		Users:       repos.Users,
		Logger:      logger,
	})
	if auth.Service == nil {
		return ServiceContainer{}, fmt.Errorf("auth mode %q could not be configured", cfg.Auth.Mode)
	}

	return ServiceContainer{
		Auth: auth,
		Guard: service.NewGuardService(service.GuardServiceOptions{
			Sink: toasts,
			Seen: repos.Cache,
			Config: service.GuardServiceConfig{
				Rules:        guardRules(cfg.Guard),
				NotifyWindow: cfg.Guard.NotifyWindow,
				Logger:       logger,
			},
		}),
		Registration: service.NewRegistrationFlow(service.RegistrationFlowOptions{
			Registrar: registrar,
			Sink:      toasts,
			Config: service.RegistrationFlowConfig{
				Locks:       repos.Cache,
				InFlightTTL: cfg.Registration.InFlightTTL,
				Logger:      logger,
				Metrics:     obs.MetricsSink,
			},
		}),
		Registrar:     registrar,
		Accounts:      accounts,
		Dashboard:     newDashboardService(cfg, repos, logger),
		Toasts:        toasts,
		Observability: obs,
	}, nil
}

// ServiceOrchestrationConfig contains dependencies for running services.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) (*http.Server, error) {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil, nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:    deps.cfg.Config,
		Services:  deps.cfg.Services,
		Readiness: ReadinessChecks(deps.cfg.DB, deps.cfg.RedisClient),
		Logger:    deps.logger,
		ErrCh:     deps.errCh,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newDashboardWarmerBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeDashboardWarmer,
		name: "dashboard warmer",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil || deps.cfg.Services.Dashboard == nil {
				return errors.New("dashboard service not initialized")
			}
			interval := 30 * time.Second
			if deps.cfg.Config != nil {
				interval = deps.cfg.Config.Warmer.Interval
			}
			warmer, err := service.NewDashboardWarmer(service.DashboardWarmerOptions{
				Dashboard: deps.cfg.Services.Dashboard,
				Interval:  interval,
				Telemetry: service.WarmerTelemetry{
					Logger:  deps.logger,
					Metrics: deps.cfg.Services.Observability.MetricsSink,
				},
			})
			if err != nil {
				return err
			}
			return warmer.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newDashboardWarmerBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) (ServiceStartupResult, error) {
	server, err := startHTTPServerIfEnabled(deps)
	if err != nil {
		return ServiceStartupResult{}, err
	}
	return ServiceStartupResult{
		HTTPServer: server,
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}, nil
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result, err := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})
	if err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		// The service context is already cancelled; shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
