package auth

import (
	"testing"
	"time"
)

func TestSession_HasRole(t *testing.T) {
	if !(Session{Role: RoleStaff}).HasRole() {
		t.Fatalf("expected role")
	}
	if (Session{}).HasRole() {
		t.Fatalf("did not expect role")
	}
}

func TestSession_DisplayName(t *testing.T) {
	s := Session{FirstName: "Lan", LastName: "Nguyen", Email: "lan@example.com"}
	if got := s.DisplayName(); got != "Lan Nguyen" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := (Session{Email: "x@example.com"}).DisplayName(); got != "x@example.com" {
		t.Fatalf("expected email fallback, got %q", got)
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		" Admin ":  RoleAdmin,
		"STAFF":    RoleStaff,
		"auditor":  Role("auditor"),
		"":         RoleNone,
		"customer": RoleCustomer,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Errorf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
	if Role("auditor").IsKnown() {
		t.Errorf("auditor should not be a known role")
	}
	if !RoleManager.IsKnown() {
		t.Errorf("manager should be known")
	}
}

func TestIdentity_SimpleFields(t *testing.T) {
	id := Identity{UserID: "u", Email: "e", ExpiresAt: time.Now().Add(time.Hour)}
	if id.UserID != "u" || id.Email != "e" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
