package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/dashboard"
	"github.com/target/bizportal/internal/domain/model"
	"github.com/target/bizportal/internal/mocks"
)

func TestUserStatsSource_StatsCards(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDashboardRepository(ctrl)
	src := NewUserStatsSource(repo)

	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().CountByRole(gomock.Any(), now).Return([]model.RoleCount{
		{Role: domainauth.RoleAdmin, Count: 2},
		{Role: domainauth.RoleCustomer, Count: 110},
		{Role: domainauth.RoleStaff, Count: 6},
		{Role: domainauth.RoleManager, Count: 3},
		{Role: RoleAreaManager, Count: 1},
	}, nil)
	repo.EXPECT().CountByRole(gomock.Any(), monthStart).Return([]model.RoleCount{
		{Role: domainauth.RoleAdmin, Count: 2},
		{Role: domainauth.RoleCustomer, Count: 100},
		{Role: domainauth.RoleStaff, Count: 5},
		{Role: domainauth.RoleManager, Count: 3},
	}, nil)

	cards, err := src.StatsCards(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	assert.Equal(t, int64(122), cards[0].Value)
	assert.Equal(t, "+10.9%", cards[0].Increase)
	assert.Equal(t, "users", cards[0].Icon)

	assert.Equal(t, int64(110), cards[1].Value)
	assert.Equal(t, "+10.0%", cards[1].Increase)

	assert.Equal(t, int64(10), cards[2].Value)
	assert.Equal(t, "+25.0%", cards[2].Increase)
	assert.Equal(t, "text-red-500", cards[2].IconColor)
}

func TestUserStatsSource_StatsCardsEmptyTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDashboardRepository(ctrl)
	repo.EXPECT().CountByRole(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

	cards, err := NewUserStatsSource(repo).StatsCards(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, cards)
}

func TestUserStatsSource_StatsCardsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDashboardRepository(ctrl)
	repo.EXPECT().CountByRole(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := NewUserStatsSource(repo).StatsCards(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestUserStatsSource_UsersGrowth(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDashboardRepository(ctrl)

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().MonthlyCumulative(gomock.Any(), from, to).Return([]model.MonthlyRoleCount{
		{Month: from, Role: domainauth.RoleCustomer, Count: 4},
		{Month: from, Role: domainauth.RoleAdmin, Count: 1},
		{Month: feb, Role: domainauth.RoleCustomer, Count: 7},
		{Month: feb, Role: domainauth.RoleManager, Count: 2},
		{Month: feb, Role: RoleAreaManager, Count: 1},
		{Month: feb, Role: domainauth.RoleStaff, Count: 3},
	}, nil)

	points, err := NewUserStatsSource(repo).UsersGrowth(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, points, 12)

	assert.Equal(t, dashboard.ChartPoint{Date: "2025-01-01", Client: 4}, points[0])
	assert.Equal(t, dashboard.ChartPoint{Date: "2025-02-01", Client: 7, Manager: 2, AreaManager: 1, Staff: 3}, points[1])
	assert.Equal(t, dashboard.ChartPoint{Date: "2025-12-01"}, points[11])
}

func TestUserStatsSource_UsersGrowthNoData(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDashboardRepository(ctrl)
	repo.EXPECT().MonthlyCumulative(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.MonthlyRoleCount{
		{Month: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), Role: domainauth.RoleAdmin, Count: 1},
	}, nil)

	points, err := NewUserStatsSource(repo).UsersGrowth(context.Background(), 2025)
	require.NoError(t, err)
	assert.Nil(t, points, "admins alone do not make a chart")
}
