package config

import (
	"strings"
	"time"
)

// GuardConfig controls the route guard.
type GuardConfig struct {
	// SignInPath is where unauthenticated visitors are sent.
	SignInPath string `env:"GUARD_SIGN_IN_PATH" envDefault:"/sign-in"`

	// FallbackPath is used for roles without a landing page, and when the
	// landing page is the page that was just refused.
	FallbackPath string `env:"GUARD_FALLBACK_PATH" envDefault:"/access-denied"`

	// Landing maps each role to its home page, as role:path pairs.
	Landing map[string]string `env:"GUARD_LANDING" envDefault:"admin:/admin,manager:/manager,customer:/customer-page,staff:/staff"`

	// NotifyWindow bounds how long a page view is remembered after its mismatch warning.
	NotifyWindow time.Duration `env:"GUARD_NOTIFY_WINDOW" envDefault:"10m"`
}

// Sanitize applies guardrails to guard configuration values.
func (g *GuardConfig) Sanitize() {
	g.SignInPath = sanitizePath(g.SignInPath, "/sign-in")
	g.FallbackPath = sanitizePath(g.FallbackPath, "/access-denied")
	landing := make(map[string]string, len(g.Landing))
	for role, path := range g.Landing {
		if r := strings.ToLower(strings.TrimSpace(role)); r != "" {
			landing[r] = sanitizePath(path, g.FallbackPath)
		}
	}
	g.Landing = landing
	if g.NotifyWindow <= 0 {
		g.NotifyWindow = 10 * time.Minute
	}
}

// RegistrationConfig controls account registration.
type RegistrationConfig struct {
	// ServiceURL points at a remote registration service. When empty,
	// accounts are created in the local database.
	ServiceURL string `env:"REGISTRATION_SERVICE_URL" envDefault:""`

	// Timeout bounds a single call to the registration service.
	Timeout time.Duration `env:"REGISTRATION_TIMEOUT" envDefault:"10s"`

	// InFlightTTL is the lifetime of the per-visitor submission lock.
	InFlightTTL time.Duration `env:"REGISTRATION_IN_FLIGHT_TTL" envDefault:"30s"`

	// DefaultRole is assigned to newly registered accounts.
	DefaultRole string `env:"REGISTRATION_DEFAULT_ROLE" envDefault:"customer"`
}

// Sanitize applies guardrails to registration configuration values.
func (r *RegistrationConfig) Sanitize() {
	r.ServiceURL = strings.TrimSpace(r.ServiceURL)
	if r.Timeout <= 0 {
		r.Timeout = 10 * time.Second
	}
	if r.InFlightTTL < r.Timeout {
		r.InFlightTTL = r.Timeout
	}
	if r.DefaultRole = strings.TrimSpace(r.DefaultRole); r.DefaultRole == "" {
		r.DefaultRole = "customer"
	}
}

// UIConfig controls rendering and toast delivery.
type UIConfig struct {
	// Locale selects the number formatting language (BCP 47 tag).
	Locale string `env:"UI_LOCALE" envDefault:"vi"`

	// ToastTTL is how long queued notifications wait for the browser to collect them.
	ToastTTL time.Duration `env:"UI_TOAST_TTL" envDefault:"5m"`
}

// Sanitize applies guardrails to UI configuration values.
func (u *UIConfig) Sanitize() {
	if u.Locale = strings.TrimSpace(u.Locale); u.Locale == "" {
		u.Locale = "vi"
	}
	if u.ToastTTL < time.Second {
		u.ToastTTL = time.Second
	}
}

func sanitizePath(p, fallback string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return fallback
	}
	return p
}
