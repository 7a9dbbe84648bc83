package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler(cfg CSRFConfig) http.Handler {
	return CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func TestCSRFProtection_GetIssuesToken(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfHandler(CSRFConfig{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/register", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := rec.Result()
	defer resp.Body.Close()
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, cookie.Value, rec.Body.String(), "token exposed to templates")
	assert.False(t, cookie.HttpOnly)
}

func TestCSRFProtection_ExistingCookieReused(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	csrfHandler(CSRFConfig{}).ServeHTTP(rec, req)

	assert.Equal(t, "tok", rec.Body.String())
	assert.Empty(t, rec.Header().Values("Set-Cookie"))
}

func TestCSRFProtection_Validation(t *testing.T) {
	tests := []struct {
		name   string
		build  func() *http.Request
		status int
	}{
		{
			name: "missing token",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/register", nil)
			},
			status: http.StatusForbidden,
		},
		{
			name: "header token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/register", nil)
				r.Header.Set(DefaultCSRFHeaderName, "tok")
				return r
			},
			status: http.StatusOK,
		},
		{
			name: "wrong header token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/register", nil)
				r.Header.Set(DefaultCSRFHeaderName, "nope")
				return r
			},
			status: http.StatusForbidden,
		},
		{
			name: "form token",
			build: func() *http.Request {
				form := url.Values{"csrf_token": {"tok"}, "email": {"a@b.co"}}
				r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			status: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.build()
			req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok"})
			rec := httptest.NewRecorder()
			csrfHandler(CSRFConfig{}).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestCSRFProtection_Exempt(t *testing.T) {
	cfg := CSRFConfig{Exempt: func(r *http.Request) bool { return strings.HasPrefix(r.URL.Path, "/api/") }}

	rec := httptest.NewRecorder()
	csrfHandler(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	csrfHandler(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIsForwardedHTTPS(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isForwardedHTTPS(r))
	r.Header.Set("X-Forwarded-Proto", "http, HTTPS")
	assert.True(t, isForwardedHTTPS(r))
}
