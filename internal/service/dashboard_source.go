package service

import (
	"context"
	"fmt"
	"time"

	"github.com/target/bizportal/internal/core"
	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/dashboard"
	"github.com/target/bizportal/internal/ports"
)

// RoleAreaManager is stored for regional managers. It has no landing page of its own.
const RoleAreaManager domainauth.Role = "area_manager"

// UserStatsSource derives dashboard numbers from the account table.
type UserStatsSource struct {
	repo core.DashboardRepository
}

var _ ports.StatsSource = (*UserStatsSource)(nil)

// NewUserStatsSource constructs a UserStatsSource.
func NewUserStatsSource(repo core.DashboardRepository) *UserStatsSource {
	return &UserStatsSource{repo: repo}
}

type roleTotals struct {
	total, customers, workforce int64
}

func (s *UserStatsSource) totals(ctx context.Context, before time.Time) (roleTotals, error) {
	counts, err := s.repo.CountByRole(ctx, before)
	if err != nil {
		return roleTotals{}, err
	}
	var t roleTotals
	for _, c := range counts {
		t.total += c.Count
		switch c.Role {
		case domainauth.RoleCustomer:
			t.customers += c.Count
		case domainauth.RoleStaff, domainauth.RoleManager, RoleAreaManager:
			t.workforce += c.Count
		}
	}
	return t, nil
}

// StatsCards reports account totals with the change since the start of the month.
// An empty account table yields no cards.
func (s *UserStatsSource) StatsCards(ctx context.Context, now time.Time) ([]dashboard.StatsCard, error) {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	current, err := s.totals(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("current totals: %w", err)
	}
	if current.total == 0 {
		return nil, nil
	}
	previous, err := s.totals(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("previous totals: %w", err)
	}

	return []dashboard.StatsCard{
		{
			Title:     "Tổng người dùng",
			Value:     current.total,
			Increase:  dashboard.PercentChange(current.total, previous.total),
			Icon:      "users",
			IconColor: "text-blue-500",
		},
		{
			Title:     "Khách hàng",
			Value:     current.customers,
			Increase:  dashboard.PercentChange(current.customers, previous.customers),
			Icon:      "clipboard-check",
			IconColor: "text-green-500",
		},
		{
			Title:     "Nhân sự",
			Value:     current.workforce,
			Increase:  dashboard.PercentChange(current.workforce, previous.workforce),
			Icon:      "briefcase",
			IconColor: "text-red-500",
		},
	}, nil
}

// UsersGrowth returns twelve end-of-month points for year. A year without
// any accounts yields no points.
func (s *UserStatsSource) UsersGrowth(ctx context.Context, year int) ([]dashboard.ChartPoint, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows, err := s.repo.MonthlyCumulative(ctx, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}

	points := make([]dashboard.ChartPoint, 12)
	index := make(map[string]int, 12)
	for i := range points {
		d := from.AddDate(0, i, 0).Format(time.DateOnly)
		points[i].Date = d
		index[d] = i
	}

	var found bool
	for _, r := range rows {
		i, ok := index[r.Month.UTC().Format(time.DateOnly)]
		if !ok || r.Count == 0 {
			continue
		}
		p := &points[i]
		switch r.Role {
		case domainauth.RoleCustomer:
			p.Client += r.Count
		case domainauth.RoleManager:
			p.Manager += r.Count
		case RoleAreaManager:
			p.AreaManager += r.Count
		case domainauth.RoleStaff:
			p.Staff += r.Count
		default:
			continue
		}
		found = true
	}
	if !found {
		return nil, nil
	}
	return points, nil
}
