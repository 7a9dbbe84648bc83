package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/bizportal/internal/domain/dashboard"
	apperrors "github.com/target/bizportal/internal/errors"
	"github.com/target/bizportal/internal/mocks"
	"github.com/target/bizportal/internal/mocks/memstore"
)

var testNow = time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

type dashboardFixture struct {
	svc      *DashboardService
	source   *mocks.MockStatsSource
	fallback *mocks.MockStatsSource
	cache    *memstore.Cache
}

func newDashboardFixture(t *testing.T) dashboardFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	fx := dashboardFixture{
		source:   mocks.NewMockStatsSource(ctrl),
		fallback: mocks.NewMockStatsSource(ctrl),
		cache:    memstore.NewCache(),
	}
	fx.svc = NewDashboardService(DashboardServiceOptions{
		Source:   fx.source,
		Fallback: fx.fallback,
		Cache:    DashboardCacheOptions{Repo: fx.cache, TTL: time.Minute},
	})
	fx.svc.now = func() time.Time { return testNow }
	return fx
}

func samplePoints(year string) []dashboard.ChartPoint {
	return []dashboard.ChartPoint{
		{Date: year + "-01-01", Client: 10, Manager: 2, AreaManager: 1, Staff: 3},
		{Date: year + "-02-01", Client: 12, Manager: 2, AreaManager: 1, Staff: 4},
	}
}

func TestDashboardService_StatsCardsCached(t *testing.T) {
	fx := newDashboardFixture(t)
	cards := []dashboard.StatsCard{{Title: "Tổng người dùng", Value: 5, Increase: "+0%"}}
	fx.source.EXPECT().StatsCards(gomock.Any(), testNow).Return(cards, nil).Times(1)

	got, err := fx.svc.StatsCards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cards, got)

	got, err = fx.svc.StatsCards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cards, got, "second read served from cache")
}

func TestDashboardService_FallbackWhenSourceEmpty(t *testing.T) {
	fx := newDashboardFixture(t)
	demo := []dashboard.StatsCard{{Title: "Tổng yêu cầu", Value: 700, Increase: "+20.1%"}}
	fx.source.EXPECT().StatsCards(gomock.Any(), gomock.Any()).Return(nil, nil)
	fx.fallback.EXPECT().StatsCards(gomock.Any(), gomock.Any()).Return(demo, nil)

	got, err := fx.svc.StatsCards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, demo, got)
}

func TestDashboardService_SourceErrorNotMasked(t *testing.T) {
	fx := newDashboardFixture(t)
	fx.source.EXPECT().StatsCards(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := fx.svc.StatsCards(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestDashboardService_CacheDownDegrades(t *testing.T) {
	fx := newDashboardFixture(t)
	fx.cache.Err = errors.New("redis down")
	fx.source.EXPECT().UsersGrowth(gomock.Any(), 2025).Return(samplePoints("2025"), nil).Times(2)

	for range 2 {
		got, err := fx.svc.UsersGrowth(context.Background(), 2025)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}
}

func TestDashboardService_UsersChartUsesCurrentYear(t *testing.T) {
	fx := newDashboardFixture(t)
	fx.source.EXPECT().UsersGrowth(gomock.Any(), 2025).Return(samplePoints("2025"), nil)

	chart, err := fx.svc.UsersChart(context.Background(), dashboard.SeriesStaff)
	require.NoError(t, err)
	assert.Equal(t, dashboard.SeriesStaff, chart.Active)
	assert.Equal(t, int64(22), chart.Totals[dashboard.SeriesClient])
	assert.Equal(t, int64(7), chart.Totals[dashboard.SeriesStaff])
}

func TestDashboardService_Overview(t *testing.T) {
	fx := newDashboardFixture(t)
	cards := []dashboard.StatsCard{{Title: "Khách hàng", Value: 22}}
	fx.source.EXPECT().StatsCards(gomock.Any(), gomock.Any()).Return(cards, nil)
	fx.source.EXPECT().UsersGrowth(gomock.Any(), 2025).Return(samplePoints("2025"), nil)

	ov, err := fx.svc.Overview(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, cards, ov.Cards)
	assert.Equal(t, dashboard.SeriesClient, ov.Chart.Active)
	assert.Len(t, ov.Chart.Points, 2)
}

func TestDashboardService_OverviewFails(t *testing.T) {
	fx := newDashboardFixture(t)
	fx.source.EXPECT().StatsCards(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom")).AnyTimes()
	fx.source.EXPECT().UsersGrowth(gomock.Any(), gomock.Any()).Return(samplePoints("2025"), nil).AnyTimes()

	_, err := fx.svc.Overview(context.Background(), "")
	require.Error(t, err)
}

func TestDashboardService_QueryUsersChart(t *testing.T) {
	fx := newDashboardFixture(t)
	fx.source.EXPECT().UsersGrowth(gomock.Any(), 2025).Return(samplePoints("2025"), nil).Times(1)

	got, err := fx.svc.QueryUsersChart(context.Background(), "", "points[].client")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(10), float64(12)}, got)

	got, err = fx.svc.QueryUsersChart(context.Background(), "", "totals.staff")
	require.NoError(t, err)
	assert.Equal(t, float64(7), got)

	whole, err := fx.svc.QueryUsersChart(context.Background(), "manager", "  ")
	require.NoError(t, err)
	chart, ok := whole.(dashboard.UsersChart)
	require.True(t, ok)
	assert.Equal(t, dashboard.SeriesManager, chart.Active)
}

func TestDashboardService_QueryUsersChartInvalid(t *testing.T) {
	fx := newDashboardFixture(t)

	_, err := fx.svc.QueryUsersChart(context.Background(), "", "points[?")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "query", apperrors.GetField(err))

	long := make([]byte, maxChartQueryLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = fx.svc.QueryUsersChart(context.Background(), "", string(long))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDashboardService_RefreshOverwritesCache(t *testing.T) {
	fx := newDashboardFixture(t)
	stale := []dashboard.StatsCard{{Title: "old", Value: 1}}
	fresh := []dashboard.StatsCard{{Title: "new", Value: 2}}

	fx.source.EXPECT().StatsCards(gomock.Any(), gomock.Any()).Return(stale, nil)
	_, err := fx.svc.StatsCards(context.Background())
	require.NoError(t, err)

	fx.source.EXPECT().StatsCards(gomock.Any(), gomock.Any()).Return(fresh, nil)
	fx.source.EXPECT().UsersGrowth(gomock.Any(), 2025).Return(samplePoints("2025"), nil)
	require.NoError(t, fx.svc.Refresh(context.Background()))

	got, err := fx.svc.StatsCards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, got)

	points, err := fx.svc.UsersGrowth(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, samplePoints("2025"), points)
}

func TestDashboardService_RefreshError(t *testing.T) {
	fx := newDashboardFixture(t)
	fx.source.EXPECT().StatsCards(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	err := fx.svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh stats cards")
}

func TestNewDashboardService_RequiresSource(t *testing.T) {
	assert.Panics(t, func() { NewDashboardService(DashboardServiceOptions{}) })
}
