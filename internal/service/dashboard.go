package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/sync/errgroup"

	"github.com/target/bizportal/internal/core"
	"github.com/target/bizportal/internal/domain/dashboard"
	apperrors "github.com/target/bizportal/internal/errors"
	"github.com/target/bizportal/internal/ports"
)

const (
	dashboardStatsKey       = "dashboard:stats"
	dashboardUsersKeyPrefix = "dashboard:users:"
	defaultDashboardTTL     = time.Minute
	maxChartQueryLength     = 512
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Source   ports.StatsSource
	Fallback ports.StatsSource // Optional: served when Source has no data
	Cache    DashboardCacheOptions
}

// DashboardCacheOptions configures result caching. A nil Repo disables it.
type DashboardCacheOptions struct {
	Repo   core.CacheRepository
	TTL    time.Duration
	Logger *slog.Logger
}

// DashboardService assembles the dashboard widgets.
type DashboardService struct {
	source   ports.StatsSource
	fallback ports.StatsSource
	cache    core.CacheRepository
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewDashboardService constructs a DashboardService. Source is required.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	if opts.Source == nil {
		panic("DashboardService requires a stats source")
	}
	ttl := opts.Cache.TTL
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	logger := opts.Cache.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		source:   opts.Source,
		fallback: opts.Fallback,
		cache:    opts.Cache.Repo,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With("component", "dashboard"),
	}
}

// StatsCards returns the headline cards.
func (s *DashboardService) StatsCards(ctx context.Context) ([]dashboard.StatsCard, error) {
	return cached(ctx, s, dashboardStatsKey, s.loadStatsCards)
}

// UsersGrowth returns the monthly users series for year.
func (s *DashboardService) UsersGrowth(ctx context.Context, year int) ([]dashboard.ChartPoint, error) {
	return cached(ctx, s, dashboardUsersKeyPrefix+strconv.Itoa(year), func(ctx context.Context) ([]dashboard.ChartPoint, error) {
		return s.loadUsersGrowth(ctx, year)
	})
}

// UsersChart returns the users growth widget for the current year.
func (s *DashboardService) UsersChart(ctx context.Context, active string) (dashboard.UsersChart, error) {
	points, err := s.UsersGrowth(ctx, s.now().Year())
	if err != nil {
		return dashboard.UsersChart{}, err
	}
	return dashboard.NewUsersChart(points, active), nil
}

// Overview loads the cards and the chart concurrently.
func (s *DashboardService) Overview(ctx context.Context, active string) (dashboard.Overview, error) {
	var out dashboard.Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cards, err := s.StatsCards(gctx)
		out.Cards = cards
		return err
	})
	g.Go(func() error {
		chart, err := s.UsersChart(gctx, active)
		out.Chart = chart
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.Overview{}, err
	}
	return out, nil
}

// QueryUsersChart projects the users chart through a JMESPath expression.
// An empty expression returns the whole chart.
func (s *DashboardService) QueryUsersChart(ctx context.Context, active, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if len(expr) > maxChartQueryLength {
		return nil, apperrors.ValidationField("query", "query is too long")
	}
	if expr != "" {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, apperrors.ValidationField("query", "invalid query: "+err.Error())
		}
	}

	chart, err := s.UsersChart(ctx, active)
	if err != nil {
		return nil, err
	}
	if expr == "" {
		return chart, nil
	}

	raw, err := json.Marshal(chart)
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	var doc any
	if decodeErr := json.Unmarshal(raw, &doc); decodeErr != nil {
		return nil, fmt.Errorf("decode chart: %w", decodeErr)
	}
	result, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil, apperrors.ValidationField("query", "query failed: "+err.Error())
	}
	return result, nil
}

// Refresh recomputes the cached widgets for the current year.
func (s *DashboardService) Refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	cards, err := s.loadStatsCards(ctx)
	if err != nil {
		return fmt.Errorf("refresh stats cards: %w", err)
	}
	s.store(ctx, dashboardStatsKey, cards)

	year := s.now().Year()
	points, err := s.loadUsersGrowth(ctx, year)
	if err != nil {
		return fmt.Errorf("refresh users growth: %w", err)
	}
	s.store(ctx, dashboardUsersKeyPrefix+strconv.Itoa(year), points)
	return nil
}

func (s *DashboardService) loadStatsCards(ctx context.Context) ([]dashboard.StatsCard, error) {
	now := s.now()
	cards, err := s.source.StatsCards(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("load stats cards: %w", err)
	}
	if len(cards) == 0 && s.fallback != nil {
		return s.fallback.StatsCards(ctx, now)
	}
	return cards, nil
}

func (s *DashboardService) loadUsersGrowth(ctx context.Context, year int) ([]dashboard.ChartPoint, error) {
	points, err := s.source.UsersGrowth(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load users growth: %w", err)
	}
	if len(points) == 0 && s.fallback != nil {
		return s.fallback.UsersGrowth(ctx, year)
	}
	return points, nil
}

// cached serves key from the cache, loading and storing it on a miss.
// Cache failures degrade to a direct load.
func cached[T any](ctx context.Context, s *DashboardService, key string, load func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "dashboard cache read failed", "key", key, "error", err)
		case raw != nil:
			var v T
			if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
				return v, nil
			}
			s.logger.WarnContext(ctx, "discarding unreadable dashboard cache entry", "key", key)
		}
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.store(ctx, key, v)
	return v, nil
}

func (s *DashboardService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.WarnContext(ctx, "encode dashboard cache entry", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache write failed", "key", key, "error", err)
	}
}
