package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/model"
)

var userSeq atomic.Int64

// UserRequestBuilder provides a fluent interface for building CreateUserRequest objects for testing.
type UserRequestBuilder struct {
	req *model.CreateUserRequest
}

// NewUserRequest creates a new UserRequestBuilder with a unique email and the customer role.
func NewUserRequest() *UserRequestBuilder {
	n := userSeq.Add(1)
	return &UserRequestBuilder{
		req: &model.CreateUserRequest{
			Email:        fmt.Sprintf("user%d@example.com", n),
			FullName:     fmt.Sprintf("Test User %d", n),
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
			Role:         auth.RoleCustomer,
		},
	}
}

// WithEmail sets the email.
func (b *UserRequestBuilder) WithEmail(email string) *UserRequestBuilder {
	b.req.Email = email
	return b
}

// WithFullName sets the display name.
func (b *UserRequestBuilder) WithFullName(name string) *UserRequestBuilder {
	b.req.FullName = name
	return b
}

// WithRole sets the role.
func (b *UserRequestBuilder) WithRole(role auth.Role) *UserRequestBuilder {
	b.req.Role = role
	return b
}

// WithPasswordHash sets the stored hash.
func (b *UserRequestBuilder) WithPasswordHash(hash string) *UserRequestBuilder {
	b.req.PasswordHash = hash
	return b
}

// Build returns the constructed CreateUserRequest.
func (b *UserRequestBuilder) Build() *model.CreateUserRequest {
	return b.req
}

// AdminUserRequest creates an admin account request.
func AdminUserRequest() *model.CreateUserRequest {
	return NewUserRequest().WithRole(auth.RoleAdmin).Build()
}

// StaffUserRequest creates a staff account request.
func StaffUserRequest() *model.CreateUserRequest {
	return NewUserRequest().WithRole(auth.RoleStaff).Build()
}
