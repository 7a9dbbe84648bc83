//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/target/bizportal/internal/domain/auth"
)

const (
	maxUserNameLen  = 255
	maxUserEmailLen = 320
)

// User is a local portal account.
type User struct {
	ID           string    `json:"id"         db:"id"`
	Email        string    `json:"email"      db:"email"`
	FullName     string    `json:"full_name"  db:"full_name"`
	PasswordHash string    `json:"-"          db:"password_hash"`
	Role         auth.Role `json:"role"       db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// FirstLastName splits FullName at the last space.
func (u User) FirstLastName() (string, string) {
	name := strings.TrimSpace(u.FullName)
	i := strings.LastIndex(name, " ")
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

// CreateUserRequest carries the fields needed to insert an account.
// PasswordHash must already be hashed.
type CreateUserRequest struct {
	Email        string
	FullName     string
	PasswordHash string
	Role         auth.Role
}

// Normalize trims fields and lowercases the email.
func (r *CreateUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	r.Role = auth.ParseRole(string(r.Role))
}

// Validate checks repository-level constraints.
func (r *CreateUserRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if utf8.RuneCountInString(r.Email) > maxUserEmailLen {
		return errors.New("email is too long")
	}
	if r.FullName == "" {
		return errors.New("full name is required")
	}
	if utf8.RuneCountInString(r.FullName) > maxUserNameLen {
		return errors.New("full name is too long")
	}
	if r.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}

// UsersListOptions controls paging for listing accounts.
type UsersListOptions struct {
	Limit  int
	Offset int
	Role   *auth.Role // exact match
}

// RoleCount is the number of accounts holding a role.
type RoleCount struct {
	Role  auth.Role `db:"role"`
	Count int64     `db:"count"`
}

// MonthlyRoleCount is the cumulative number of accounts per role at the end of a month.
type MonthlyRoleCount struct {
	Month time.Time `db:"month"`
	Role  auth.Role `db:"role"`
	Count int64     `db:"count"`
}
