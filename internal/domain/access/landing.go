package access

import "github.com/target/bizportal/internal/domain/auth"

// LandingMap is a total mapping from role to home page: roles without an
// entry resolve to Fallback.
type LandingMap struct {
	Routes   map[auth.Role]string
	Fallback string
}

// DefaultLandingMap returns the portal's stock landing pages.
func DefaultLandingMap() LandingMap {
	return LandingMap{
		Routes: map[auth.Role]string{
			auth.RoleAdmin:    "/admin",
			auth.RoleManager:  "/manager",
			auth.RoleCustomer: "/customer-page",
			auth.RoleStaff:    "/staff",
		},
		Fallback: DefaultFallbackPath,
	}
}

// NewLandingMap builds a LandingMap from role name to path pairs.
func NewLandingMap(routes map[string]string, fallback string) LandingMap {
	lm := LandingMap{Routes: make(map[auth.Role]string, len(routes)), Fallback: fallback}
	for role, path := range routes {
		lm.Routes[auth.ParseRole(role)] = path
	}
	return lm
}

// Resolve returns the landing page for role. The fallback is used for
// unmapped roles and when the landing page is currentPath itself, so a
// refused page never redirects to itself.
func (m LandingMap) Resolve(role auth.Role, currentPath string) string {
	fallback := m.Fallback
	if fallback == "" {
		fallback = DefaultFallbackPath
	}
	path, ok := m.Routes[role]
	if !ok || path == "" || role == auth.RoleNone {
		return fallback
	}
	if currentPath != "" && path == currentPath {
		return fallback
	}
	return path
}

// For returns the landing page for role without loop protection. Used after
// sign-in to pick a default destination.
func (m LandingMap) For(role auth.Role) string {
	return m.Resolve(role, "")
}
