package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/target/bizportal/internal/domain/access"
	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/observability/metrics"
	"github.com/target/bizportal/internal/observability/statsd"
	"github.com/target/bizportal/internal/service"
)

// SessionCookieName carries the opaque session id.
const SessionCookieName = "session_id"

// SessionLookup resolves a session id.
type SessionLookup interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// StateProvider derives the guard's view of the caller from a request.
type StateProvider interface {
	State(r *http.Request) (access.AuthState, *domainauth.Session)
}

// SessionStateProvider reads the session cookie and asks the auth service.
type SessionStateProvider struct {
	Sessions SessionLookup
	Logger   *slog.Logger
}

// State reports unauthenticated for a missing, expired or unknown session. Any
// other lookup failure leaves the state Loading so the guard neither renders
// nor redirects on a transient outage.
func (p SessionStateProvider) State(r *http.Request) (access.AuthState, *domainauth.Session) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return access.AuthState{}, nil
	}
	sess, err := p.Sessions.GetSession(r.Context(), c.Value)
	switch {
	case err == nil && sess != nil:
		return access.AuthState{IsAuthenticated: true, UserRole: sess.Role}, sess
	case err == nil || service.IsSessionMissing(err):
		return access.AuthState{}, nil
	default:
		logger := p.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.WarnContext(r.Context(), "session lookup failed", "error", err)
		return access.AuthState{Loading: true}, nil
	}
}

// GuardChecker evaluates a policy and queues any mismatch warning.
type GuardChecker interface {
	Check(ctx context.Context, mount service.Mount, state access.AuthState, policy access.Policy) access.Decision
}

// GuardDeps groups what the Guard middleware needs.
type GuardDeps struct {
	Guard   GuardChecker
	State   StateProvider
	Metrics statsd.Sink // Optional
}

// retryAfterSeconds is sent with a suspended decision.
const retryAfterSeconds = "1"

// Guard protects a page with policy. Browser requests are redirected, API
// requests get 401/403 JSON errors.
func Guard(deps GuardDeps, policy access.Policy) func(http.Handler) http.Handler {
	if deps.Guard == nil || deps.State == nil {
		panic("httpx.Guard requires a guard checker and a state provider")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, sess := deps.State.State(r)
			mount := service.Mount{Recipient: recipientFor(r, sess), Path: r.URL.Path, ID: mountIDFor(r)}
			decision := deps.Guard.Check(r.Context(), mount, state, policy)
			metrics.EmitGuardDecision(deps.Metrics, decision.Outcome.String(), r.URL.Path)

			switch decision.Outcome {
			case access.OutcomeRender:
				next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
			case access.OutcomeRedirectSignIn:
				if !IsBrowserRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusUnauthorized,
						ErrCode: "authentication_required",
						Err:     errors.New("authentication required"),
					})
					return
				}
				q := url.Values{"redirect_uri": {redirectPathForRequest(r)}}
				redirect(w, r, decision.Target+"?"+q.Encode())
			case access.OutcomeRedirectLanding:
				if !IsBrowserRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusForbidden,
						ErrCode: "insufficient_permissions",
						Err:     errors.New(access.MsgAccessDenied),
					})
					return
				}
				redirect(w, r, decision.Target)
			default:
				w.Header().Set("Retry-After", retryAfterSeconds)
				w.WriteHeader(http.StatusNoContent)
			}
		})
	}
}

// MountIDHeader carries the page view id the portal script attaches to its
// requests.
const MountIDHeader = "X-Mount-Id"

// mountIDFor returns the page view id sent by the browser. A plain navigation
// carries none and is its own page view.
func mountIDFor(r *http.Request) string {
	if v := r.Header.Get(MountIDHeader); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

// recipientFor picks who receives toasts for this request: the browser's
// visitor id, else the session.
func recipientFor(r *http.Request, sess *domainauth.Session) string {
	if v := VisitorFromContext(r.Context()); v != "" {
		return v
	}
	if sess != nil {
		return "session:" + sess.ID
	}
	return ""
}
