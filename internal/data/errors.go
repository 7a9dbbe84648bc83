package data

import (
	"errors"

	apperrors "github.com/target/bizportal/internal/errors"
)

// Shared sentinel errors for data-layer repositories.
var (
	// ErrUserNotFound is returned when no account matches the lookup.
	ErrUserNotFound error = apperrors.NotFound("user not found")
	// ErrEmailExists is returned when an account with the same email already exists.
	ErrEmailExists = errors.New("email already registered")
)
