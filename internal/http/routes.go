package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/target/bizportal"
	"github.com/target/bizportal/internal/domain/access"
	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/observability/statsd"
	"github.com/target/bizportal/internal/ports"
)

// DashboardAPI is everything the pages and the JSON API read from the dashboard service.
type DashboardAPI interface {
	DashboardReader
	DashboardQuerier
}

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	Guard        GuardChecker
	Registration RegistrationSubmitter
	Registrar    ports.Registrar // Optional: enables POST /api/auth/register
	Dashboard    DashboardAPI
	Accounts     AccountLister // Optional
	Toasts       ToastDrainer
	Readiness    []ReadinessCheck

	// Rules used after sign-in and sign-out.
	Landing    access.LandingMap
	SignInPath string

	PasswordEnabled bool
	ProviderEnabled bool

	CookieDomain string
	Locale       string
	Metrics      statsd.Sink // Optional

	IsDev  bool         // Serve templates and static files from disk
	Logger *slog.Logger // Logger for template and HTTP errors (optional)

	// TemplateFS overrides the template source (tests).
	TemplateFS fs.FS
}

// NewRouter creates and configures a new HTTP router with browser middleware.
// The result is wrapped by bootstrap with recovery, logging and compression.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil || services.Guard == nil || services.Registration == nil ||
		services.Dashboard == nil || services.Toasts == nil {
		return nil, errors.New("router requires auth, guard, registration, dashboard and toast services")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services),
		Locale:     services.Locale,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	guard := guardFactory(services, logger)

	registerAuthRoutes(mux, &AuthHandlers{
		Svc:             services.Auth,
		CookieDomain:    services.CookieDomain,
		Logger:          logger,
		Renderer:        tr,
		Landing:         services.Landing,
		SignInPath:      services.SignInPath,
		PasswordEnabled: services.PasswordEnabled,
		ProviderEnabled: services.ProviderEnabled,
	})
	registerRegisterRoutes(mux, &RegisterHandlers{
		Flow:      services.Registration,
		Registrar: services.Registrar,
		Renderer:  tr,
		Logger:    logger,
	})
	registerPortalRoutes(mux, &PortalHandlers{
		Renderer:  tr,
		Dashboard: services.Dashboard,
		Accounts:  services.Accounts,
		Landing:   services.Landing,
		Logger:    logger,
	}, guard)
	registerDashboardRoutes(mux, &DashboardHandlers{Svc: services.Dashboard, Logger: logger}, guard)

	toasts := &ToastHandlers{Sink: services.Toasts, Logger: logger}
	mux.HandleFunc("GET /toasts", toasts.Drain)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.Readiness))
	mux.Handle("GET /static/", staticHandler(services.IsDev, logger))
	mux.HandleFunc("/", notFound)

	var h http.Handler = mux
	h = CSRFProtection(CSRFConfig{
		CookieDomain: services.CookieDomain,
		Exempt:       isMachineEndpoint,
	})(h)
	h = Visitor(VisitorConfig{CookieDomain: services.CookieDomain})(h)
	h = BrowserDetection()(h)
	return h, nil
}

// isMachineEndpoint marks JSON endpoints called by other services rather than browsers.
func isMachineEndpoint(r *http.Request) bool {
	return r.Method == http.MethodPost && r.URL.Path == "/api/auth/register"
}

// guardFactory binds the guard dependencies once and returns a policy wrapper.
func guardFactory(services RouterServices, logger *slog.Logger) func(access.Policy) func(http.Handler) http.Handler {
	deps := GuardDeps{
		Guard:   services.Guard,
		State:   SessionStateProvider{Sessions: services.Auth, Logger: logger},
		Metrics: services.Metrics,
	}
	return func(p access.Policy) func(http.Handler) http.Handler {
		return Guard(deps, p)
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /sign-in", h.SignInPage)
	mux.HandleFunc("POST /sign-in", h.SignInSubmit)
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerRegisterRoutes(mux *http.ServeMux, h *RegisterHandlers) {
	mux.HandleFunc("GET /register", h.Page)
	mux.HandleFunc("POST /register", h.Submit)
	mux.HandleFunc("POST /api/auth/register", h.API)
}

func registerPortalRoutes(
	mux *http.ServeMux,
	h *PortalHandlers,
	guard func(access.Policy) func(http.Handler) http.Handler,
) {
	mux.Handle("GET /{$}", guard(access.Guest())(http.HandlerFunc(h.Home)))
	mux.HandleFunc("GET /access-denied", h.AccessDenied)

	admin := guard(access.Allow(domainauth.RoleAdmin))
	mux.Handle("GET /admin", admin(http.HandlerFunc(h.Admin)))
	mux.Handle("GET /admin/users", admin(http.HandlerFunc(h.AdminUsers)))
	mux.Handle("GET /manager", guard(access.Allow(domainauth.RoleManager))(http.HandlerFunc(h.Manager)))
	mux.Handle("GET /customer-page", guard(access.Allow(domainauth.RoleCustomer))(http.HandlerFunc(h.Customer)))
	mux.Handle("GET /staff", guard(access.Allow(domainauth.RoleStaff))(http.HandlerFunc(h.Staff)))
}

func registerDashboardRoutes(
	mux *http.ServeMux,
	h *DashboardHandlers,
	guard func(access.Policy) func(http.Handler) http.Handler,
) {
	wrap := guard(access.Allow(domainauth.RoleAdmin, domainauth.RoleManager, domainauth.RoleStaff))
	mux.Handle("GET /api/dashboard/stats", wrap(http.HandlerFunc(h.Stats)))
	mux.Handle("GET /api/dashboard/users-chart", wrap(http.HandlerFunc(h.UsersChart)))
}

// templateFS picks the template source: disk in dev mode for hot reloading,
// the embedded copy otherwise.
func templateFS(services RouterServices) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(bizportal.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), false)
	}
	sub, err := fs.Sub(bizportal.StaticFS, "frontend/static")
	if err != nil {
		logger.Warn("embedded static assets unavailable, serving from disk", "error", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), false)
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(sub))), true)
}

func staticWithCacheHeaders(handler http.Handler, cacheable bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cacheable {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		handler.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		http.NotFound(w, r)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusNotFound,
		ErrCode: "not_found",
		Err:     errors.New("resource not found"),
	})
}
