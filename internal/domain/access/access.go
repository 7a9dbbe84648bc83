// Package access decides whether a page may be shown to the current visitor.
// Everything here is pure: session lookup and notification delivery live in
// the service and http layers.
package access

import (
	"github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/notify"
)

// MsgAccessDenied is shown when an authenticated visitor lacks the page's role.
const MsgAccessDenied = "You do not have permission to access this page."

const (
	DefaultSignInPath   = "/sign-in"
	DefaultFallbackPath = "/access-denied"
)

// AuthState is the guard's read-only view of the visitor.
type AuthState struct {
	IsAuthenticated bool
	UserRole        auth.Role
	// Loading is set while the session cannot be resolved yet.
	Loading bool
}

// Policy is attached to a page when its route is registered.
type Policy struct {
	// AllowedRoles restricts the page; empty admits any authenticated role.
	AllowedRoles []auth.Role
	// AllowGuest admits unauthenticated visitors.
	AllowGuest bool
}

// Allow returns a policy restricted to the given roles.
func Allow(roles ...auth.Role) Policy {
	return Policy{AllowedRoles: roles}
}

// Guest returns a policy that admits unauthenticated visitors and the given roles.
func Guest(roles ...auth.Role) Policy {
	return Policy{AllowedRoles: roles, AllowGuest: true}
}

// Permits reports whether role satisfies the policy's role set.
func (p Policy) Permits(role auth.Role) bool {
	if len(p.AllowedRoles) == 0 {
		return true
	}
	for _, r := range p.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Outcome enumerates what the guard does with a request.
type Outcome int

const (
	// OutcomeSuspend renders neither the page nor a redirect.
	OutcomeSuspend Outcome = iota
	OutcomeRender
	OutcomeRedirectSignIn
	OutcomeRedirectLanding
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuspend:
		return "suspend"
	case OutcomeRender:
		return "render"
	case OutcomeRedirectSignIn:
		return "redirect_sign_in"
	case OutcomeRedirectLanding:
		return "redirect_landing"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating a policy.
type Decision struct {
	Outcome Outcome
	// Target is the redirect path for the two redirect outcomes.
	Target string
	// Warning is set for OutcomeRedirectLanding.
	Warning *notify.Notification
}

// Redirects reports whether the decision sends the visitor elsewhere.
func (d Decision) Redirects() bool {
	return d.Outcome == OutcomeRedirectSignIn || d.Outcome == OutcomeRedirectLanding
}

// Rules binds the redirect destinations used by Evaluate.
type Rules struct {
	SignInPath string
	Landing    LandingMap
}

// DefaultRules returns the stock sign-in path and landing map.
func DefaultRules() Rules {
	return Rules{SignInPath: DefaultSignInPath, Landing: DefaultLandingMap()}
}

// Evaluate applies policy to state using DefaultRules. The landing target is
// resolved without knowledge of the requested page.
func Evaluate(state AuthState, policy Policy) Decision {
	return DefaultRules().Evaluate(state, policy, "")
}

// Evaluate applies policy to state for a request to currentPath.
func (r Rules) Evaluate(state AuthState, policy Policy, currentPath string) Decision {
	switch {
	case state.Loading:
		return Decision{Outcome: OutcomeSuspend}
	case !state.IsAuthenticated && policy.AllowGuest:
		return Decision{Outcome: OutcomeRender}
	case !state.IsAuthenticated:
		target := r.SignInPath
		if target == "" {
			target = DefaultSignInPath
		}
		return Decision{Outcome: OutcomeRedirectSignIn, Target: target}
	case policy.Permits(state.UserRole):
		return Decision{Outcome: OutcomeRender}
	default:
		warning := notify.Error(MsgAccessDenied)
		return Decision{
			Outcome: OutcomeRedirectLanding,
			Target:  r.Landing.Resolve(state.UserRole, currentPath),
			Warning: &warning,
		}
	}
}
