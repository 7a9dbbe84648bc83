package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:  "single service - http",
			input: "http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
		},
		{
			name:  "multiple services with spaces",
			input: " http , dashboard-warmer ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:            true,
				ServiceModeDashboardWarmer: true,
			},
		},
		{
			name:  "duplicate services",
			input: "http,http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expectError: true,
		},
		{
			name:        "invalid service name",
			input:       "http,scheduler",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	cfg := AppConfig{Services: "dashboard-warmer"}
	if cfg.IsHTTPServerEnabled() {
		t.Errorf("IsHTTPServerEnabled(): expected false")
	}
	if !cfg.IsDashboardWarmerEnabled() {
		t.Errorf("IsDashboardWarmerEnabled(): expected true")
	}

	invalid := AppConfig{Services: "invalid-service"}
	if invalid.IsHTTPServerEnabled() || invalid.IsDashboardWarmerEnabled() {
		t.Errorf("expected all services disabled with invalid config")
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "OAuth")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://portal.example.com/auth/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("DEV_AUTH_GROUPS", "portal-admins;devs")
	t.Setenv("AUTH_GROUP_MANAGER", "cn=managers,ou=groups")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://portal.example.com/auth/callback",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
		},
		DevAuth: DevAuthConfig{
			UserID: "dev-user",
			Email:  "dev@example.com",
			Groups: []string{"portal-admins", "devs"},
		},
		Groups: RoleGroups{
			Admin:    "portal-admins",
			Manager:  "cn=managers,ou=groups",
			Staff:    "portal-staff",
			Customer: "portal-customers",
		},
		SessionTTL: 8 * time.Hour,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAuthMode_UnmarshalTextRejectsUnknown(t *testing.T) {
	var m AuthMode
	if err := m.UnmarshalText([]byte("saml")); err == nil {
		t.Fatalf("expected error for unknown auth mode")
	}
}

func TestGuardConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	want := map[string]string{
		"admin":    "/admin",
		"manager":  "/manager",
		"customer": "/customer-page",
		"staff":    "/staff",
	}
	if !reflect.DeepEqual(cfg.Guard.Landing, want) {
		t.Fatalf("unexpected landing map: %v", cfg.Guard.Landing)
	}
	if cfg.Guard.SignInPath != "/sign-in" || cfg.Guard.FallbackPath != "/access-denied" {
		t.Fatalf("unexpected guard paths: %+v", cfg.Guard)
	}
	if cfg.Guard.NotifyWindow != 10*time.Minute {
		t.Fatalf("unexpected notify window: %v", cfg.Guard.NotifyWindow)
	}
	if cfg.UI.Locale != "vi" {
		t.Fatalf("unexpected locale: %q", cfg.UI.Locale)
	}
	if cfg.Cache.DashboardTTL != time.Minute {
		t.Fatalf("unexpected dashboard ttl: %v", cfg.Cache.DashboardTTL)
	}
}

func TestGuardConfig_Sanitize(t *testing.T) {
	cfg := GuardConfig{
		SignInPath:   "https://evil.example.com",
		FallbackPath: "",
		Landing: map[string]string{
			" Admin ": "/admin",
			"staff":   "//evil",
			"":        "/nowhere",
		},
	}
	cfg.Sanitize()

	if cfg.SignInPath != "/sign-in" {
		t.Errorf("sign-in path not reset: %q", cfg.SignInPath)
	}
	if cfg.FallbackPath != "/access-denied" {
		t.Errorf("fallback path not reset: %q", cfg.FallbackPath)
	}
	want := map[string]string{"admin": "/admin", "staff": "/access-denied"}
	if !reflect.DeepEqual(cfg.Landing, want) {
		t.Errorf("unexpected landing map: %v", cfg.Landing)
	}
	if cfg.NotifyWindow != 10*time.Minute {
		t.Errorf("notify window not defaulted: %v", cfg.NotifyWindow)
	}
}

func TestRegistrationConfig_Sanitize(t *testing.T) {
	cfg := RegistrationConfig{
		ServiceURL:  " https://accounts.example.com ",
		Timeout:     0,
		InFlightTTL: time.Second,
	}
	cfg.Sanitize()

	if cfg.ServiceURL != "https://accounts.example.com" {
		t.Errorf("service url not trimmed: %q", cfg.ServiceURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("timeout not defaulted: %v", cfg.Timeout)
	}
	if cfg.InFlightTTL != cfg.Timeout {
		t.Errorf("in-flight ttl should cover the timeout, got %v", cfg.InFlightTTL)
	}
	if cfg.DefaultRole != "customer" {
		t.Errorf("default role not set: %q", cfg.DefaultRole)
	}
}

func TestHTTPConfig_SanitizeClampsCompression(t *testing.T) {
	h := HTTPConfig{CompressionLevel: 42}
	h.Sanitize()
	if h.CompressionLevel != 9 {
		t.Fatalf("expected 9, got %d", h.CompressionLevel)
	}
	h.CompressionLevel = -1
	h.Sanitize()
	if h.CompressionLevel != 1 {
		t.Fatalf("expected 1, got %d", h.CompressionLevel)
	}
}

func TestMetricsConfig_Sanitize(t *testing.T) {
	cfg := MetricsConfig{Enabled: true, StatsdAddress: " ", Prefix: " .portal. "}
	cfg.Sanitize()
	if cfg.IsEnabled() {
		t.Fatalf("expected metrics to be disabled without an address")
	}
	if cfg.Prefix != "portal" {
		t.Fatalf("unexpected prefix %q", cfg.Prefix)
	}

	cfg = MetricsConfig{Enabled: true, StatsdAddress: " statsd:8125 "}
	cfg.Sanitize()
	if !cfg.IsEnabled() || cfg.StatsdAddress != "statsd:8125" {
		t.Fatalf("unexpected metrics config: %+v", cfg)
	}
}
