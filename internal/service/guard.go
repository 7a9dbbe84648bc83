package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/target/bizportal/internal/core"
	"github.com/target/bizportal/internal/domain/access"
	"github.com/target/bizportal/internal/ports"
)

const (
	guardNotifiedPrefix = "guard:notified:"
	defaultNotifyWindow = 10 * time.Minute
)

// Mount identifies one visit of a guarded page by one visitor. ID names the
// page view; checks repeated within the same view share it, a new navigation
// gets a fresh one.
type Mount struct {
	Recipient string
	Path      string
	ID        string
}

func (m Mount) key() string {
	return guardNotifiedPrefix + strconv.FormatUint(xxhash.Sum64String(m.Recipient+"\x00"+m.Path+"\x00"+m.ID), 16)
}

// GuardServiceOptions groups dependencies for GuardService.
type GuardServiceOptions struct {
	Sink   ports.NotificationSink
	Seen   core.CacheRepository // Optional: without it every refusal notifies
	Config GuardServiceConfig
}

// GuardServiceConfig holds the guard's redirect rules and notification window.
type GuardServiceConfig struct {
	Rules        access.Rules
	NotifyWindow time.Duration
	Logger       *slog.Logger
}

// GuardService evaluates access policies and reports refusals to the visitor.
type GuardService struct {
	sink   ports.NotificationSink
	seen   core.CacheRepository
	rules  access.Rules
	window time.Duration
	logger *slog.Logger
}

// NewGuardService constructs a GuardService.
func NewGuardService(opts GuardServiceOptions) *GuardService {
	window := opts.Config.NotifyWindow
	if window <= 0 {
		window = defaultNotifyWindow
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rules := opts.Config.Rules
	if rules.Landing.Routes == nil {
		rules.Landing = access.DefaultLandingMap()
	}
	return &GuardService{
		sink:   opts.Sink,
		seen:   opts.Seen,
		rules:  rules,
		window: window,
		logger: logger.With("component", "guard"),
	}
}

// Rules returns the redirect rules in effect.
func (s *GuardService) Rules() access.Rules { return s.rules }

// Check evaluates policy for the visitor and, on a role mismatch, queues the
// warning at most once per mount. The window bounds how long a mount is
// remembered, it never suppresses a later visit.
func (s *GuardService) Check(ctx context.Context, mount Mount, state access.AuthState, policy access.Policy) access.Decision {
	decision := s.rules.Evaluate(state, policy, mount.Path)
	if decision.Outcome != access.OutcomeRedirectLanding || decision.Warning == nil {
		return decision
	}
	if s.sink == nil || mount.Recipient == "" {
		return decision
	}

	if s.seen != nil {
		first, err := s.seen.SetIfNotExists(ctx, mount.key(), []byte("1"), s.window)
		if err != nil {
			// The sink still drops duplicates of a pending warning.
			s.logger.WarnContext(ctx, "guard dedupe unavailable", "error", err)
		} else if !first {
			return decision
		}
	}

	warning := *decision.Warning
	warning.DedupeKey = mount.key()
	if _, _, err := s.sink.Push(ctx, mount.Recipient, warning); err != nil {
		s.logger.WarnContext(ctx, "queue access warning failed", "path", mount.Path, "error", err)
	}
	return decision
}
