package core

import (
	"context"
	"time"

	"github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository defines the interface for account data operations.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error)
	SetRole(ctx context.Context, email string, role auth.Role) (*model.User, error)
}

// DashboardRepository defines the aggregate queries behind the dashboard widgets.
type DashboardRepository interface {
	// CountByRole returns the number of accounts per role created before the cutoff.
	CountByRole(ctx context.Context, before time.Time) ([]model.RoleCount, error)
	// MonthlyCumulative returns end-of-month account totals per role for the months in [from, to).
	MonthlyCumulative(ctx context.Context, from, to time.Time) ([]model.MonthlyRoleCount, error)
}
