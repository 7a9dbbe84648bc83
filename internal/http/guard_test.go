package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/bizportal/internal/domain/access"
	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/notify"
	"github.com/target/bizportal/internal/mocks/memstore"
	"github.com/target/bizportal/internal/ports"
	"github.com/target/bizportal/internal/service"
)

type fixedState struct {
	state access.AuthState
	sess  *domainauth.Session
}

func (f fixedState) State(*http.Request) (access.AuthState, *domainauth.Session) {
	return f.state, f.sess
}

type guardFixture struct {
	sink *memstore.NotificationSink
	deps GuardDeps
}

func newGuardFixture(state access.AuthState, sess *domainauth.Session) guardFixture {
	sink := memstore.NewNotificationSink()
	guard := service.NewGuardService(service.GuardServiceOptions{
		Sink: sink,
		Seen: memstore.NewCache(),
		Config: service.GuardServiceConfig{
			Rules: access.DefaultRules(),
		},
	})
	return guardFixture{sink: sink, deps: GuardDeps{Guard: guard, State: fixedState{state: state, sess: sess}}}
}

func okPage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSessionFromContext(r.Context())
		if sess != nil {
			_, _ = fmt.Fprintf(w, "hello %s", sess.Role)
			return
		}
		_, _ = w.Write([]byte("hello guest"))
	})
}

func serveGuarded(fx guardFixture, policy access.Policy, req *http.Request) *httptest.ResponseRecorder {
	req = req.WithContext(SetVisitorInContext(req.Context(), "visitor-1"))
	rec := httptest.NewRecorder()
	Guard(fx.deps, policy)(okPage()).ServeHTTP(rec, req)
	return rec
}

func TestGuard_RendersPermittedRole(t *testing.T) {
	sess := &domainauth.Session{ID: "s1", Role: domainauth.RoleAdmin}
	fx := newGuardFixture(access.AuthState{IsAuthenticated: true, UserRole: domainauth.RoleAdmin}, sess)

	rec := serveGuarded(fx, access.Allow(domainauth.RoleAdmin), httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello admin", rec.Body.String())
}

func TestGuard_SuspendsWhileLoading(t *testing.T) {
	fx := newGuardFixture(access.AuthState{Loading: true}, nil)

	rec := serveGuarded(fx, access.Allow(domainauth.RoleAdmin), httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Empty(t, rec.Body.String())
}

func TestGuard_GuestAllowed(t *testing.T) {
	fx := newGuardFixture(access.AuthState{}, nil)

	rec := serveGuarded(fx, access.Guest(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello guest", rec.Body.String())
}

func TestGuard_RedirectsToSignIn(t *testing.T) {
	fx := newGuardFixture(access.AuthState{}, nil)

	rec := serveGuarded(fx, access.Allow(domainauth.RoleStaff), httptest.NewRequest(http.MethodGet, "/staff?tab=1", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sign-in?redirect_uri=%2Fstaff%3Ftab%3D1", rec.Header().Get("Location"))
}

func TestGuard_HTMXRedirectUsesCurrentURL(t *testing.T) {
	fx := newGuardFixture(access.AuthState{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/staff/partial", nil)
	req.Header.Set("Hx-Request", "true")
	req.Header.Set("Hx-Current-Url", "https://portal.example.com/staff")

	rec := serveGuarded(fx, access.Allow(domainauth.RoleStaff), req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/sign-in?redirect_uri=%2Fstaff", rec.Header().Get("Hx-Redirect"))
}

func TestGuard_WrongRoleLandsOnceWithWarning(t *testing.T) {
	sess := &domainauth.Session{ID: "s1", Role: domainauth.RoleCustomer}
	fx := newGuardFixture(access.AuthState{IsAuthenticated: true, UserRole: domainauth.RoleCustomer}, sess)
	viewID := "6f1c1f0e-4a53-4d38-9d0b-0c4f2f1f6a10"

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(MountIDHeader, viewID)
		rec := serveGuarded(fx, access.Allow(domainauth.RoleAdmin), req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/customer-page", rec.Header().Get("Location"))
	}

	pending := fx.sink.Pending("visitor-1")
	require.Len(t, pending, 1)
	assert.Equal(t, access.MsgAccessDenied, pending[0].Message)
	assert.Equal(t, notify.SeverityError, pending[0].Severity)
}

func TestGuard_EachNavigationGetsItsOwnWarning(t *testing.T) {
	sess := &domainauth.Session{ID: "s1", Role: domainauth.RoleStaff}
	fx := newGuardFixture(access.AuthState{IsAuthenticated: true, UserRole: domainauth.RoleStaff}, sess)
	policy := access.Allow(domainauth.RoleAdmin)

	serveGuarded(fx, policy, httptest.NewRequest(http.MethodGet, "/admin", nil))
	first, err := fx.sink.Drain(context.Background(), "visitor-1")
	require.NoError(t, err)
	require.Len(t, first, 1)

	rec := serveGuarded(fx, policy, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, "/staff", rec.Header().Get("Location"))
	second, err := fx.sink.Drain(context.Background(), "visitor-1")
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestMountIDFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(MountIDHeader, "6F1C1F0E-4A53-4D38-9D0B-0C4F2F1F6A10")
	assert.Equal(t, "6f1c1f0e-4a53-4d38-9d0b-0c4f2f1f6a10", mountIDFor(req))

	req.Header.Set(MountIDHeader, "not-a-uuid")
	a := mountIDFor(req)
	b := mountIDFor(req)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, "not-a-uuid", a)
}

func TestGuard_UnmappedRoleFallsBack(t *testing.T) {
	fx := newGuardFixture(access.AuthState{IsAuthenticated: true, UserRole: "auditor"}, &domainauth.Session{ID: "s1", Role: "auditor"})

	rec := serveGuarded(fx, access.Allow(domainauth.RoleAdmin), httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, access.DefaultFallbackPath, rec.Header().Get("Location"))
}

func TestGuard_APIRequestsGetJSON(t *testing.T) {
	fx := newGuardFixture(access.AuthState{}, nil)
	rec := serveGuarded(fx, access.Allow(domainauth.RoleAdmin), httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")

	fx = newGuardFixture(access.AuthState{IsAuthenticated: true, UserRole: domainauth.RoleStaff}, &domainauth.Session{ID: "s", Role: domainauth.RoleStaff})
	rec = serveGuarded(fx, access.Allow(domainauth.RoleAdmin), httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_permissions")
}

type lookupFunc func(ctx context.Context, id string) (*domainauth.Session, error)

func (f lookupFunc) GetSession(ctx context.Context, id string) (*domainauth.Session, error) {
	return f(ctx, id)
}

func TestSessionStateProvider(t *testing.T) {
	staff := &domainauth.Session{ID: "ok", Role: domainauth.RoleStaff}
	p := SessionStateProvider{Sessions: lookupFunc(func(_ context.Context, id string) (*domainauth.Session, error) {
		switch id {
		case "ok":
			return staff, nil
		case "expired":
			return nil, service.ErrSessionExpired
		case "unknown":
			return nil, fmt.Errorf("get session: %w", ports.ErrSessionNotFound)
		default:
			return nil, errors.New("dial tcp: connection refused")
		}
	})}

	tests := []struct {
		cookie string
		want   access.AuthState
	}{
		{"", access.AuthState{}},
		{"ok", access.AuthState{IsAuthenticated: true, UserRole: domainauth.RoleStaff}},
		{"expired", access.AuthState{}},
		{"unknown", access.AuthState{}},
		{"broken", access.AuthState{Loading: true}},
	}
	for _, tt := range tests {
		t.Run(tt.cookie, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			state, sess := p.State(req)
			assert.Equal(t, tt.want, state)
			if tt.want.IsAuthenticated {
				assert.Equal(t, staff, sess)
			} else {
				assert.Nil(t, sess)
			}
		})
	}
}
