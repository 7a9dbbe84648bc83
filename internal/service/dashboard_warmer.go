package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/target/bizportal/internal/observability/metrics"
	"github.com/target/bizportal/internal/observability/statsd"
)

// dashboardRefresher is the part of DashboardService the warmer drives.
type dashboardRefresher interface {
	Refresh(ctx context.Context) error
}

// DashboardWarmerOptions groups dependencies for DashboardWarmer.
type DashboardWarmerOptions struct {
	Dashboard dashboardRefresher
	Interval  time.Duration
	Telemetry WarmerTelemetry
}

// WarmerTelemetry carries the warmer's optional logger and metrics sink.
type WarmerTelemetry struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// DashboardWarmer keeps the cached dashboard widgets fresh so page loads
// rarely hit the database.
type DashboardWarmer struct {
	dashboard dashboardRefresher
	interval  time.Duration
	logger    *slog.Logger
	metrics   statsd.Sink
}

// NewDashboardWarmer constructs a DashboardWarmer.
func NewDashboardWarmer(opts DashboardWarmerOptions) (*DashboardWarmer, error) {
	if opts.Dashboard == nil {
		return nil, errors.New("dashboard service is required")
	}
	if opts.Interval <= 0 {
		return nil, errors.New("warmer interval must be positive")
	}
	logger := opts.Telemetry.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardWarmer{
		dashboard: opts.Dashboard,
		interval:  opts.Interval,
		logger:    logger.With("component", "dashboard_warmer"),
		metrics:   opts.Telemetry.Metrics,
	}, nil
}

// Run refreshes immediately after a short jitter, then on every tick until ctx
// is cancelled. Returns nil on graceful shutdown.
func (w *DashboardWarmer) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "starting dashboard warmer", "interval", w.interval)

	w.waitWithJitter(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "dashboard warmer stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *DashboardWarmer) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	err := w.dashboard.Refresh(ctx)
	metrics.EmitDashboardRefresh(w.metrics, time.Since(start), err)
	if err != nil && !errors.Is(err, context.Canceled) {
		w.logger.WarnContext(ctx, "dashboard refresh failed", "error", err)
	}
}

// waitWithJitter delays up to 10% of the interval so replicas spread out.
func (w *DashboardWarmer) waitWithJitter(ctx context.Context) {
	maxJitter := int64(w.interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return
	}
	jitter := time.Duration(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)) // #nosec G115 - bounded by maxJitter

	timer := time.NewTimer(jitter)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
