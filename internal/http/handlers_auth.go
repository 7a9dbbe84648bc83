package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/target/bizportal/internal/domain/access"
	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/dashboard"
	apperrors "github.com/target/bizportal/internal/errors"
	"github.com/target/bizportal/internal/service"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	oauthCookieLifetime = 10 * time.Minute
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	PasswordLogin(ctx context.Context, email, password string) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for sign-in, sign-out and session status.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger

	// Renderer draws the sign-in page; required for SignInPage and SignInSubmit.
	Renderer *TemplateRenderer
	// Landing picks the destination after sign-in when no redirect_uri was given.
	Landing access.LandingMap
	// SignInPath is where sign-out sends the browser.
	SignInPath string

	PasswordEnabled bool
	ProviderEnabled bool
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// SignInPage renders the sign-in form.
// GET /sign-in?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) SignInPage(w http.ResponseWriter, r *http.Request) {
	h.renderSignIn(w, r, signInView{RedirectURI: r.URL.Query().Get("redirect_uri")})
}

// SignInSubmit signs a local account in.
// POST /sign-in (form: email, password, redirect_uri).
func (h *AuthHandlers) SignInSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	view := signInView{Email: email, RedirectURI: r.PostFormValue("redirect_uri")}

	if !h.PasswordEnabled {
		view.Status = http.StatusNotFound
		view.Error = "Password sign-in is not enabled"
		h.renderSignIn(w, r, view)
		return
	}

	result, err := h.Svc.PasswordLogin(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			view.Status = http.StatusUnauthorized
			view.Error = apperrors.GetMessage(err)
		} else {
			h.logger().ErrorContext(r.Context(), "password sign-in failed", "error", err)
			view.Status = http.StatusInternalServerError
			view.Error = "Sign-in is temporarily unavailable. Please try again."
		}
		h.renderSignIn(w, r, view)
		return
	}

	h.setSessionCookie(w, r, result.Session)
	redirect(w, r, h.postLoginTarget(view.RedirectURI, result.Session.Role))
}

type signInView struct {
	Email       string
	RedirectURI string
	Error       string
	Status      int
}

func (h *AuthHandlers) renderSignIn(w http.ResponseWriter, r *http.Request, v signInView) {
	if h.Renderer == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "renderer_unavailable",
			Err:     errors.New("sign-in page is not available"),
		})
		return
	}
	b := NewTemplateData(r, PageMeta{Title: "Sign in", PageTitle: "Sign in", CurrentPage: PageSignIn}).
		With("Heading", dashboard.Heading{Text: "Sign in", Size: dashboard.HeadingMedium}).
		With("Email", v.Email).
		With("RedirectURI", safeRedirectPath(v.RedirectURI)).
		With("PasswordEnabled", h.PasswordEnabled).
		With("ProviderEnabled", h.ProviderEnabled)
	if v.Error != "" {
		b.WithError(v.Error)
	}
	if v.Status != 0 {
		// htmx ignores non-2xx bodies by default, so only full page posts carry the status.
		if !IsHTMX(r) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(v.Status)
		}
	}
	h.Renderer.RenderPage(w, r, b.Build())
}

// postLoginTarget honours an explicit same-origin redirect, else the role's landing page.
func (h *AuthHandlers) postLoginTarget(redirectURI string, role domainauth.Role) string {
	if target := safeRedirectPath(redirectURI); target != "/" {
		return target
	}
	return h.Landing.For(role)
}

// Login handles the login initiation endpoint.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	h.setShortCookie(w, r, oauthStateCookie, result.State)
	h.setShortCookie(w, r, oauthNonceCookie, result.Nonce)
	h.setShortCookie(w, r, postLoginCookie, redirectURI)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}
	if state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_state",
			Err:     errors.New("state parameter is required"),
		})
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookie)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "login completion failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_completion_failed",
			Err:     errors.New("login could not be completed"),
		})
		return
	}

	h.setSessionCookie(w, r, result.Session)
	h.clearCookie(w, r, oauthStateCookie)
	h.clearCookie(w, r, oauthNonceCookie)

	redirectURI := "/"
	if c, cookieErr := r.Cookie(postLoginCookie); cookieErr == nil {
		redirectURI = c.Value
		h.clearCookie(w, r, postLoginCookie)
	}
	http.Redirect(w, r, h.postLoginTarget(redirectURI, result.Session.Role), http.StatusFound)
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearCookie(w, r, SessionCookieName)

	target := h.SignInPath
	if target == "" {
		target = access.DefaultSignInPath
	}

	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX && !IsHTMX(r) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": target,
		})
		return
	}
	redirect(w, r, target)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		if service.IsSessionMissing(err) {
			h.clearCookie(w, r, SessionCookieName)
			WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		h.logger().WarnContext(r.Context(), "session status lookup failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "session_unavailable",
			Err:     errors.New("session store unavailable"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":         session.UserID,
			"first_name": session.FirstName,
			"last_name":  session.LastName,
			"email":      session.Email,
			"role":       session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

// clearCookie mirrors the attributes used when setting cookies so browsers drop them.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// setShortCookie stores one leg of the OAuth round trip.
func (h *AuthHandlers) setShortCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthCookieLifetime.Seconds()),
	})
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}
