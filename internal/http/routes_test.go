package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/bizportal/internal/devseed"
	"github.com/target/bizportal/internal/domain/access"
	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/notify"
	"github.com/target/bizportal/internal/domain/registration"
	mockauth "github.com/target/bizportal/internal/mocks/auth"
	"github.com/target/bizportal/internal/mocks/memstore"
	"github.com/target/bizportal/internal/service"
)

const testVisitor = "6f1c2a4e-6a43-4c1e-9d55-1a2b3c4d5e6f"

type recordingRegistrar struct {
	mu    sync.Mutex
	calls []registration.Request
	resp  registration.Response
}

func (r *recordingRegistrar) Register(_ context.Context, req registration.Request) (registration.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req)
	return r.resp, nil
}

func (r *recordingRegistrar) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type routerFixture struct {
	handler   http.Handler
	sessions  *mockauth.MemorySessionStore
	sink      *memstore.NotificationSink
	registrar *recordingRegistrar
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
	}

	sessions := mockauth.NewMemorySessionStore()
	sink := memstore.NewNotificationSink()
	registrar := &recordingRegistrar{resp: registration.Response{Success: true}}

	auth := service.NewAuthService(service.AuthServiceOptions{Sessions: sessions})
	guard := service.NewGuardService(service.GuardServiceOptions{
		Sink:   sink,
		Seen:   memstore.NewCache(),
		Config: service.GuardServiceConfig{Rules: access.DefaultRules()},
	})
	flow := service.NewRegistrationFlow(service.RegistrationFlowOptions{
		Registrar: registrar,
		Sink:      sink,
		Config:    service.RegistrationFlowConfig{Locks: memstore.NewCache()},
	})
	dash := service.NewDashboardService(service.DashboardServiceOptions{Source: devseed.DemoStatsSource{}})

	h, err := NewRouter(RouterServices{
		Auth:            auth,
		Guard:           guard,
		Registration:    flow,
		Registrar:       registrar,
		Dashboard:       dash,
		Toasts:          sink,
		Landing:         access.DefaultLandingMap(),
		PasswordEnabled: true,
		Locale:          "en",
		TemplateFS:      os.DirFS(TemplatePathFromTest),
	})
	require.NoError(t, err)
	return routerFixture{handler: h, sessions: sessions, sink: sink, registrar: registrar}
}

func (fx routerFixture) signIn(t *testing.T, role domainauth.Role) *http.Cookie {
	t.Helper()
	sess := domainauth.Session{
		ID:        "sess-" + string(role),
		UserID:    "u-" + string(role),
		FirstName: "Test",
		Email:     string(role) + "@example.com",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, fx.sessions.Save(context.Background(), sess))
	return &http.Cookie{Name: SessionCookieName, Value: sess.ID}
}

func (fx routerFixture) serve(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: testVisitor})
	rec := httptest.NewRecorder()
	fx.handler.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_RequiresCoreServices(t *testing.T) {
	_, err := NewRouter(RouterServices{})
	require.Error(t, err)
}

func TestRouter_Healthz(t *testing.T) {
	fx := newRouterFixture(t)

	rec := fx.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_GuestHome(t *testing.T) {
	fx := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	rec := fx.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/register"`)
}

func TestRouter_AdminRequiresSignIn(t *testing.T) {
	fx := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Accept", "text/html")
	rec := fx.serve(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sign-in?redirect_uri=%2Fadmin", rec.Header().Get("Location"))
}

func TestRouter_AdminDashboardRenders(t *testing.T) {
	fx := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(fx.signIn(t, domainauth.RoleAdmin))
	rec := fx.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin dashboard")
}

func TestRouter_WrongRoleRedirectsWithToast(t *testing.T) {
	fx := newRouterFixture(t)
	cookie := fx.signIn(t, domainauth.RoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(cookie)
	rec := fx.serve(req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/customer-page", rec.Header().Get("Location"))

	toastReq := httptest.NewRequest(http.MethodGet, "/toasts", nil)
	toastReq.Header.Set("Accept", "application/json")
	toastRec := fx.serve(toastReq)
	require.Equal(t, http.StatusOK, toastRec.Code)

	var toasts []notify.Notification
	require.NoError(t, json.Unmarshal(toastRec.Body.Bytes(), &toasts))
	require.Len(t, toasts, 1)
	assert.Equal(t, access.MsgAccessDenied, toasts[0].Message)
	assert.Equal(t, notify.SeverityError, toasts[0].Severity)

	// Drained.
	assert.Empty(t, fx.sink.Pending(testVisitor))
}

func TestRouter_RegisterRequiresCSRF(t *testing.T) {
	fx := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("fullName=Ann"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := fx.serve(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, fx.registrar.count())
}

func TestRouter_RegisterSubmitWithToken(t *testing.T) {
	fx := newRouterFixture(t)

	form := url.Values{
		registration.FieldFullName:        {"Ann Lee"},
		registration.FieldEmail:           {"ann@example.com"},
		registration.FieldPassword:        {"longenough"},
		registration.FieldConfirmPassword: {"longenough"},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	req.Header.Set(DefaultCSRFHeaderName, "token-123")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "token-123"})
	rec := fx.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fx.registrar.count())
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "toasts:refresh")

	pending := fx.sink.Pending(testVisitor)
	require.Len(t, pending, 1)
	assert.Equal(t, registration.MsgSucceeded, pending[0].Message)
}

func TestRouter_RegistrationAPIIsCSRFExempt(t *testing.T) {
	fx := newRouterFixture(t)

	body := `{"name":"Ann Lee","email":"ann@example.com","password":"longenough","confirmPassword":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := fx.serve(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, fx.registrar.count())
}

func TestRouter_DashboardStatsAPI(t *testing.T) {
	fx := newRouterFixture(t)

	unauth := fx.serve(httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, unauth.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	req.AddCookie(fx.signIn(t, domainauth.RoleAdmin))
	rec := fx.serve(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Cards []json.RawMessage `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Cards)
}

func TestRouter_CustomerCannotReadDashboardAPI(t *testing.T) {
	fx := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	req.AddCookie(fx.signIn(t, domainauth.RoleCustomer))
	rec := fx.serve(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_UnknownAPIPathIsJSON404(t *testing.T) {
	fx := newRouterFixture(t)

	rec := fx.serve(httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}
