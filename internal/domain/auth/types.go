package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents a portal authorization role.
// Keep string form for easy persistence and cookies. Unknown values are
// carried verbatim; they simply never match an access policy.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"

	// RoleNone marks an authenticated principal without an assigned role.
	RoleNone Role = ""
)

// KnownRoles lists the roles the portal ships landing pages for.
func KnownRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleCustomer, RoleStaff}
}

// ParseRole normalizes user input into a Role. Unknown names are kept as-is.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// IsKnown reports whether r is one of KnownRoles.
func (r Role) IsKnown() bool {
	for _, k := range KnownRoles() {
		if r == k {
			return true
		}
	}
	return false
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub or account id)
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HasRole returns true if the session carries a non-empty role.
func (s Session) HasRole() bool { return s.Role != RoleNone }

// DisplayName returns the best human-readable name for the session owner.
func (s Session) DisplayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name != "" {
		return name
	}
	return s.Email
}
