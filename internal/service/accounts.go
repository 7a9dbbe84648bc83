package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/target/bizportal/internal/core"
	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/model"
	"github.com/target/bizportal/internal/domain/registration"
	apperrors "github.com/target/bizportal/internal/errors"
	"github.com/target/bizportal/internal/ports"
)

// MsgEmailTaken is returned to the registration form for duplicate accounts.
const MsgEmailTaken = "Email already registered"

// AccountServiceOptions groups dependencies for AccountService.
type AccountServiceOptions struct {
	Users       core.UserRepository
	DefaultRole domainauth.Role // Optional: defaults to customer
	Logger      *slog.Logger
}

// AccountService manages local portal accounts. It is also the in-process
// registration service when no remote one is configured.
type AccountService struct {
	users       core.UserRepository
	defaultRole domainauth.Role
	cost        int
	logger      *slog.Logger
}

var _ ports.Registrar = (*AccountService)(nil)

// NewAccountService constructs an AccountService.
func NewAccountService(opts AccountServiceOptions) *AccountService {
	if opts.Users == nil {
		panic("AccountService requires a user repository")
	}
	role := opts.DefaultRole
	if role == domainauth.RoleNone {
		role = domainauth.RoleCustomer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		users:       opts.Users,
		defaultRole: role,
		cost:        bcrypt.DefaultCost,
		logger:      logger.With("component", "accounts"),
	}
}

// Register creates an account from a sign-up payload. Rejections are reported
// in the response; the error is reserved for failures of the store itself.
func (s *AccountService) Register(ctx context.Context, req registration.Request) (registration.Response, error) {
	errs := registration.Validate(registration.Form{
		FullName:        req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if !errs.Empty() {
		return registration.Response{Success: false, Message: errs.Messages()[0]}, nil
	}

	_, err := s.CreateUser(ctx, CreateUserInput{
		Email:    req.Email,
		FullName: req.Name,
		Password: req.Password,
		Role:     s.defaultRole,
	})
	switch {
	case err == nil:
		return registration.Response{Success: true}, nil
	case apperrors.IsConflict(err):
		return registration.Response{Success: false, Message: MsgEmailTaken}, nil
	case apperrors.IsValidation(err):
		return registration.Response{Success: false, Message: apperrors.GetMessage(err)}, nil
	default:
		return registration.Response{}, err
	}
}

// CreateUserInput carries a new account with its plaintext password.
type CreateUserInput struct {
	Email    string
	FullName string
	Password string
	Role     domainauth.Role
}

// CreateUser hashes the password and stores the account.
func (s *AccountService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if utf8.RuneCountInString(in.Password) < registration.MinPasswordLength {
		return nil, apperrors.ValidationField(registration.FieldPassword, registration.MsgPasswordTooShort)
	}
	// bcrypt rejects inputs over 72 bytes.
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.ValidationField(registration.FieldPassword, "Password is too long")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &model.CreateUserRequest{
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: string(hash),
		Role:         in.Role,
	})
	if err != nil {
		if apperrors.IsConflict(err) {
			return nil, apperrors.ConflictField(registration.FieldEmail, MsgEmailTaken)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.logger.InfoContext(ctx, "account created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// SetRole changes an account's role. The empty role is rejected.
func (s *AccountService) SetRole(ctx context.Context, email string, role domainauth.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}
	user, err := s.users.SetRole(ctx, email, role)
	if err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	s.logger.InfoContext(ctx, "account role changed", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// List returns accounts newest first.
func (s *AccountService) List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error) {
	users, err := s.users.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return users, nil
}
