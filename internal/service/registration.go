package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/target/bizportal/internal/core"
	"github.com/target/bizportal/internal/domain/notify"
	"github.com/target/bizportal/internal/domain/registration"
	apperrors "github.com/target/bizportal/internal/errors"
	"github.com/target/bizportal/internal/observability/metrics"
	"github.com/target/bizportal/internal/observability/statsd"
	"github.com/target/bizportal/internal/ports"
)

// ErrSubmissionInFlight rejects a sign-up while the same visitor's previous one is outstanding.
var ErrSubmissionInFlight = apperrors.Conflict("A registration is already in progress")

const (
	registrationLockPrefix = "registration:inflight:"
	defaultInFlightTTL     = 30 * time.Second
)

// RegistrationFlowOptions groups dependencies for RegistrationFlow.
type RegistrationFlowOptions struct {
	Registrar ports.Registrar
	Sink      ports.NotificationSink
	Config    RegistrationFlowConfig
}

// RegistrationFlowConfig configures the per-visitor in-flight gate and telemetry.
type RegistrationFlowConfig struct {
	Locks       core.CacheRepository
	InFlightTTL time.Duration
	Logger      *slog.Logger
	Metrics     statsd.Sink // Optional
}

// RegistrationFlow runs one sign-up form submission end to end.
type RegistrationFlow struct {
	registrar ports.Registrar
	sink      ports.NotificationSink
	locks     core.CacheRepository
	lockTTL   time.Duration
	logger    *slog.Logger
	metrics   statsd.Sink
}

// RegistrationResult is what the form is re-rendered with.
type RegistrationResult struct {
	Form    registration.Form
	Errors  registration.Errors
	Success bool
	// Loading is always false once Submit returns.
	Loading bool
	Message string
}

// NewRegistrationFlow constructs a RegistrationFlow. Registrar, Sink and Config.Locks are required.
func NewRegistrationFlow(opts RegistrationFlowOptions) *RegistrationFlow {
	if opts.Registrar == nil || opts.Sink == nil || opts.Config.Locks == nil {
		panic("RegistrationFlow requires a registrar, a notification sink and a lock cache")
	}
	ttl := opts.Config.InFlightTTL
	if ttl <= 0 {
		ttl = defaultInFlightTTL
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationFlow{
		registrar: opts.Registrar,
		sink:      opts.Sink,
		locks:     opts.Config.Locks,
		lockTTL:   ttl,
		logger:    logger.With("component", "registration"),
		metrics:   opts.Config.Metrics,
	}
}

// Submit validates form and, when it is clean, makes exactly one call to the
// registration service. Outcomes are reported to recipient as notifications.
func (f *RegistrationFlow) Submit(ctx context.Context, recipient string, form registration.Form) (RegistrationResult, error) {
	if strings.TrimSpace(recipient) == "" {
		return RegistrationResult{}, apperrors.Validation("recipient is required")
	}

	if errs := registration.Validate(form); !errs.Empty() {
		for _, msg := range errs.Messages() {
			f.notify(ctx, recipient, notify.Error(msg))
		}
		return RegistrationResult{Form: form, Errors: errs}, nil
	}

	release, err := f.acquire(ctx, recipient)
	if err != nil {
		return RegistrationResult{}, err
	}
	defer release()

	loading := f.notify(ctx, recipient, notify.Loading(registration.MsgSubmitting))
	defer func() {
		if loading.ID == "" {
			return
		}
		if dErr := f.sink.Dismiss(context.WithoutCancel(ctx), recipient, loading.ID); dErr != nil {
			f.logger.WarnContext(ctx, "dismiss loading notification failed", "error", dErr)
		}
	}()

	start := time.Now()
	resp, err := f.registrar.Register(ctx, registration.NewRequest(form))
	elapsed := time.Since(start)
	switch {
	case err != nil:
		f.logger.WarnContext(ctx, "registration call failed", "error", err)
		metrics.EmitRegistration(f.metrics, metrics.RegistrationMetric{Result: metrics.ResultError, Duration: elapsed, Err: err})
		return f.fail(ctx, recipient, form, registration.MsgFailed), nil
	case !resp.Success:
		metrics.EmitRegistration(f.metrics, metrics.RegistrationMetric{Result: metrics.ResultRejected, Duration: elapsed})
		return f.fail(ctx, recipient, form, resp.Message), nil
	}

	metrics.EmitRegistration(f.metrics, metrics.RegistrationMetric{Result: metrics.ResultSuccess, Duration: elapsed})
	f.notify(ctx, recipient, notify.Success(registration.MsgSucceeded))
	return RegistrationResult{Success: true, Message: registration.MsgSucceeded}, nil
}

func (f *RegistrationFlow) fail(ctx context.Context, recipient string, form registration.Form, msg string) RegistrationResult {
	if strings.TrimSpace(msg) == "" {
		msg = registration.MsgFailed
	}
	f.notify(ctx, recipient, notify.Error(msg))
	return RegistrationResult{
		Form:    form,
		Errors:  registration.Errors{Email: msg},
		Message: msg,
	}
}

// acquire takes the visitor's in-flight lock and returns its release func.
func (f *RegistrationFlow) acquire(ctx context.Context, recipient string) (func(), error) {
	key := registrationLockPrefix + recipient
	token := []byte(uuid.NewString())

	ok, err := f.locks.SetIfNotExists(ctx, key, token, f.lockTTL)
	if err != nil {
		return nil, apperrors.Wrap(fmt.Errorf("acquire registration lock: %w", err),
			apperrors.ErrCodeUnavailable, "Registration is temporarily unavailable")
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}

	return func() {
		if _, relErr := f.locks.DeleteIfEquals(context.WithoutCancel(ctx), key, token); relErr != nil {
			f.logger.WarnContext(ctx, "release registration lock failed", "error", relErr)
		}
	}, nil
}

// notify pushes n and logs delivery failures; the returned notification has
// an empty ID when nothing was queued.
func (f *RegistrationFlow) notify(ctx context.Context, recipient string, n notify.Notification) notify.Notification {
	stored, queued, err := f.sink.Push(ctx, recipient, n)
	if err != nil {
		f.logger.WarnContext(ctx, "queue notification failed", "severity", n.Severity, "error", err)
		return notify.Notification{}
	}
	if !queued {
		return notify.Notification{}
	}
	return stored
}
