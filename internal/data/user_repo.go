package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/target/bizportal/internal/data/pgxutil"
	"github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/model"
	apperrors "github.com/target/bizportal/internal/errors"
)

const userColumns = `id, email, full_name, password_hash, role, created_at, updated_at`

// UserRepo provides database operations for portal accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// Create inserts a new account. Duplicate emails (case-insensitive) yield ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	req.Normalize()
	if req.Role == auth.RoleNone {
		req.Role = auth.RoleCustomer
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var qerr error
		out, qerr = pgxutil.CollectOne[model.User](ctx, conn, `
			INSERT INTO users (email, full_name, password_hash, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING `+userColumns,
			req.Email, req.FullName, req.PasswordHash, string(req.Role), now,
		)
		return qerr
	})
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return nil, fmt.Errorf("%w: %w", ErrEmailExists, mapped)
		}
		return nil, fmt.Errorf("failed to create user: %w", mapped)
	}
	return &out, nil
}

// GetByID retrieves an account by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, "failed to get user by ID", id)
}

// GetByEmail retrieves an account by email, ignoring case.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, "failed to get user by email", email)
}

// List retrieves accounts newest first with pagination and an optional role filter.
func (r *UserRepo) List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	var role any
	if opts.Role != nil {
		role = string(*opts.Role)
	}

	var rowsOut []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var qerr error
		rowsOut, qerr = pgxutil.CollectAll[model.User](ctx, conn, `
			SELECT `+userColumns+`
			FROM users
			WHERE ($1::text IS NULL OR role = $1)
			ORDER BY created_at DESC, id
			LIMIT $2 OFFSET $3`,
			role, limit, offset,
		)
		return qerr
	}); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// SetRole changes the stored role of the account with the given email.
func (r *UserRepo) SetRole(ctx context.Context, email string, role auth.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	role = auth.ParseRole(string(role))
	if role == auth.RoleNone {
		return nil, apperrors.ValidationField("role", "role is required")
	}
	return r.getOne(ctx, `
		UPDATE users SET role = $2, updated_at = $3
		WHERE lower(email) = $1
		RETURNING `+userColumns,
		"failed to set user role", email, string(role), r.timeProvider.Now().UTC())
}

func (r *UserRepo) getOne(ctx context.Context, query, failMsg string, args ...any) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var qerr error
		out, qerr = pgxutil.CollectOne[model.User](ctx, conn, query, args...)
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", failMsg, apperrors.MapDBError(err))
	}
	return &out, nil
}
