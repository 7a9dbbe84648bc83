package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/target/bizportal/internal/data/pgxutil"
	"github.com/target/bizportal/internal/domain/model"
)

// DashboardRepo runs the aggregate queries behind the dashboard widgets.
type DashboardRepo struct {
	DB *sql.DB
}

// NewDashboardRepo creates a new DashboardRepo.
func NewDashboardRepo(db *sql.DB) *DashboardRepo {
	return &DashboardRepo{DB: db}
}

const countByRoleQuery = `
	SELECT role, count(*) AS count
	FROM users
	WHERE created_at < $1
	GROUP BY role
	ORDER BY role`

// CountByRole returns the number of accounts per role created before the cutoff.
func (r *DashboardRepo) CountByRole(ctx context.Context, before time.Time) ([]model.RoleCount, error) {
	var out []model.RoleCount
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var qerr error
		out, qerr = pgxutil.CollectAll[model.RoleCount](ctx, conn, countByRoleQuery, before.UTC())
		return qerr
	}); err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	return out, nil
}

// Months are generated in UTC; each row holds the running total at the end of that month.
const monthlyCumulativeQuery = `
	WITH months AS (
		SELECT generate_series(
			date_trunc('month', $1::timestamptz AT TIME ZONE 'UTC'),
			date_trunc('month', $2::timestamptz AT TIME ZONE 'UTC') - interval '1 month',
			interval '1 month'
		) AS month
	),
	roles AS (
		SELECT DISTINCT role FROM users
	)
	SELECT m.month AT TIME ZONE 'UTC' AS month,
	       r.role,
	       count(u.id) AS count
	FROM months m
	CROSS JOIN roles r
	LEFT JOIN users u
	       ON u.role = r.role
	      AND u.created_at < (m.month + interval '1 month') AT TIME ZONE 'UTC'
	GROUP BY m.month, r.role
	ORDER BY m.month, r.role`

// MonthlyCumulative returns end-of-month account totals per role for the months in [from, to).
func (r *DashboardRepo) MonthlyCumulative(ctx context.Context, from, to time.Time) ([]model.MonthlyRoleCount, error) {
	if !to.After(from) {
		return nil, errors.New("monthly range end must be after start")
	}
	var out []model.MonthlyRoleCount
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var qerr error
		out, qerr = pgxutil.CollectAll[model.MonthlyRoleCount](ctx, conn, monthlyCumulativeQuery, from.UTC(), to.UTC())
		return qerr
	}); err != nil {
		return nil, fmt.Errorf("failed to load monthly user totals: %w", err)
	}
	return out, nil
}
