package bootstrap

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/bizportal/config"
	"github.com/target/bizportal/internal/adapters/authroles"
	"github.com/target/bizportal/internal/adapters/devauth"
	"github.com/target/bizportal/internal/adapters/oidc"
	redisadapter "github.com/target/bizportal/internal/adapters/redis"
	"github.com/target/bizportal/internal/core"
	"github.com/target/bizportal/internal/ports"
	"github.com/target/bizportal/internal/service"
)

// sessionKeyPrefix namespaces session records in Redis.
const sessionKeyPrefix = "session:"

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Users       core.UserRepository // Required for password mode
	Logger      *slog.Logger
}

// AuthBundle is the auth service plus the sign-in methods it supports.
type AuthBundle struct {
	Service         *service.AuthService
	PasswordEnabled bool
	ProviderEnabled bool
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns a zero bundle if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) AuthBundle {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RedisClient == nil {
		cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		return AuthBundle{}
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, sessionKeyPrefix)
	roleMapper := authroles.FromConfig(cfg.Auth.Groups)

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return providerBundle(cfg, buildDevAuthProvider(cfg), sessionStore, roleMapper)

	case config.AuthModeOAuth:
		return providerBundle(cfg, buildOAuthProvider(cfg), sessionStore, roleMapper)

	case config.AuthModePassword:
		if cfg.Users == nil {
			cfg.Logger.Warn("password auth selected but no user repository; auth disabled")
			return AuthBundle{}
		}
		svc := service.NewAuthService(service.AuthServiceOptions{
			Sessions: sessionStore,
			Roles:    roleMapper,
			Local:    localLogin(cfg.Users, cfg.Auth.SessionTTL),
		})
		return AuthBundle{Service: svc, PasswordEnabled: true}

	default:
		return AuthBundle{}
	}
}

func providerBundle(
	cfg AuthConfig,
	prov ports.AuthProvider,
	sessionStore *redisadapter.SessionStore,
	roleMapper authroles.StaticRoleMapper,
) AuthBundle {
	if prov == nil {
		return AuthBundle{}
	}
	opts := service.AuthServiceOptions{
		Provider: prov,
		Sessions: sessionStore,
		Roles:    roleMapper,
	}
	// Seeded local accounts still sign in alongside the provider.
	if cfg.Users != nil {
		opts.Local = localLogin(cfg.Users, cfg.Auth.SessionTTL)
	}
	return AuthBundle{
		Service:         service.NewAuthService(opts),
		PasswordEnabled: cfg.Users != nil,
		ProviderEnabled: true,
	}
}

func localLogin(users core.UserRepository, ttl time.Duration) service.LocalLoginOptions {
	return service.LocalLoginOptions{Users: users, SessionTTL: ttl}
}

//nolint:ireturn // callers only need the port.
func buildDevAuthProvider(cfg AuthConfig) ports.AuthProvider {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          cfg.Auth.DevAuth.UserID,
		Email:           cfg.Auth.DevAuth.Email,
		Groups:          cfg.Auth.DevAuth.Groups,
		SessionDuration: cfg.Auth.SessionTTL,
	})
	if err != nil {
		cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		return nil
	}
	return prov
}

//nolint:ireturn // callers only need the port.
func buildOAuthProvider(cfg AuthConfig) ports.AuthProvider {
	// Only enable when fully configured
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
			"discovery_url_empty", oauth.DiscoveryURL == "",
			"client_id_empty", oauth.ClientID == "",
			"client_secret_empty", oauth.ClientSecret == "",
		)
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
	})
	if err != nil {
		cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		return nil
	}
	return prov
}
