// Package devseed loads development fixtures: one demo account per portal role
// and the static dashboard dataset served while the database is empty.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/model"
	apperrors "github.com/target/bizportal/internal/errors"
	"github.com/target/bizportal/internal/service"
)

// DefaultPassword is shared by every seeded account. Development only.
const DefaultPassword = "bizportal-dev"

// accountCreator is satisfied by *service.AccountService.
type accountCreator interface {
	CreateUser(ctx context.Context, in service.CreateUserInput) (*model.User, error)
}

// DemoAccounts lists the seeded sign-ins, one per role.
func DemoAccounts() []service.CreateUserInput {
	return []service.CreateUserInput{
		{Email: "admin@bizportal.local", FullName: "Quản trị viên", Role: domainauth.RoleAdmin},
		{Email: "manager@bizportal.local", FullName: "Trần Văn Quản", Role: domainauth.RoleManager},
		{Email: "customer@bizportal.local", FullName: "Nguyễn Thị Khách", Role: domainauth.RoleCustomer},
		{Email: "staff@bizportal.local", FullName: "Lê Văn Nhân", Role: domainauth.RoleStaff},
	}
}

// Run seeds the demo accounts. Existing accounts are left untouched.
func Run(ctx context.Context, accounts accountCreator, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	failures := 0
	for _, in := range DemoAccounts() {
		in.Password = DefaultPassword
		created, err := createAccount(ctx, accounts, in)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create demo account", "email", in.Email, "error", err)
			failures++
			continue
		}
		msg := "demo account already exists"
		if created {
			msg = "created demo account"
		}
		logger.InfoContext(ctx, msg, "email", in.Email, "role", in.Role)
	}
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func createAccount(ctx context.Context, accounts accountCreator, in service.CreateUserInput) (bool, error) {
	if _, err := accounts.CreateUser(ctx, in); err != nil {
		if apperrors.IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
