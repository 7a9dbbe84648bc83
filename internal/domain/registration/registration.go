// Package registration holds the sign-up form model and its validation rules.
package registration

import (
	"regexp"
	"strings"

	"github.com/target/bizportal/internal/validation"
)

// User-facing messages.
const (
	MsgFullNameRequired = "Full name is required"
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Please enter a valid email"
	MsgPasswordRequired = "Password is required"
	MsgPasswordTooShort = "Password must be at least 8 characters"
	MsgPasswordMismatch = "Passwords do not match"

	MsgSubmitting = "Creating your account..."
	MsgSucceeded  = "Registration successful! Please check your email."
	MsgFailed     = "Registration failed"
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 8

// Field names used as error keys and form input names.
const (
	FieldFullName        = "fullName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// emailPattern is intentionally loose and unanchored.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Form is the sign-up form as submitted.
type Form struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Errors holds at most one message per form field.
type Errors struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Empty reports whether no field has an error.
func (e Errors) Empty() bool {
	return e.FullName == "" && e.Email == "" && e.Password == "" && e.ConfirmPassword == ""
}

// Messages returns the non-empty messages in form order.
func (e Errors) Messages() []string {
	out := make([]string, 0, 4)
	for _, m := range []string{e.FullName, e.Email, e.Password, e.ConfirmPassword} {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// Map returns the errors keyed by field name.
func (e Errors) Map() map[string]string {
	m := make(map[string]string, 4)
	if e.FullName != "" {
		m[FieldFullName] = e.FullName
	}
	if e.Email != "" {
		m[FieldEmail] = e.Email
	}
	if e.Password != "" {
		m[FieldPassword] = e.Password
	}
	if e.ConfirmPassword != "" {
		m[FieldConfirmPassword] = e.ConfirmPassword
	}
	return m
}

// Validate checks every field and reports the first failing rule for each.
func Validate(f Form) Errors {
	errs := validation.New().
		Validate(FieldFullName, f.FullName, validation.NotBlank(MsgFullNameRequired)).
		Validate(FieldEmail, f.Email,
			validation.NotBlank(MsgEmailRequired),
			validation.Contains(emailPattern, MsgEmailInvalid),
		).
		Validate(FieldPassword, f.Password,
			validation.NotEmpty(MsgPasswordRequired),
			validation.MinRunes(MinPasswordLength, MsgPasswordTooShort),
		).
		Validate(FieldConfirmPassword, f.ConfirmPassword,
			validation.Equals(f.Password, MsgPasswordMismatch),
		).
		Errors()

	return Errors{
		FullName:        errs[FieldFullName],
		Email:           errs[FieldEmail],
		Password:        errs[FieldPassword],
		ConfirmPassword: errs[FieldConfirmPassword],
	}
}

// Request is the payload sent to the registration service.
type Request struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// NewRequest builds the outbound payload from a validated form.
func NewRequest(f Form) Request {
	return Request{
		Name:            strings.TrimSpace(f.FullName),
		Email:           strings.TrimSpace(f.Email),
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	}
}

// Response is the registration service reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
