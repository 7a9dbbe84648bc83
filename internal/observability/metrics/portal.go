// Package metrics holds the portal's metric names and tagging conventions.
package metrics

import (
	"time"

	obserrors "github.com/target/bizportal/internal/observability/errors"
	"github.com/target/bizportal/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// EmitGuardDecision counts one guard evaluation.
func EmitGuardDecision(sink statsd.Sink, outcome, path string) {
	if sink == nil {
		return
	}
	sink.Count("guard.decision", 1, map[string]string{"outcome": outcome, "path": path})
}

// RegistrationMetric describes one completed registration submission.
type RegistrationMetric struct {
	Result   string
	Duration time.Duration
	Err      error
}

// EmitRegistration counts a submission and times the registration call.
func EmitRegistration(sink statsd.Sink, in RegistrationMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": in.Result}
	if in.Err != nil {
		tags["error_class"] = obserrors.Classify(in.Err)
	}
	sink.Count("registration.submit", 1, tags)
	if in.Duration > 0 {
		sink.Timing("registration.duration", in.Duration, map[string]string{"result": in.Result})
	}
}

// EmitDashboardRefresh times one warmer pass.
func EmitDashboardRefresh(sink statsd.Sink, d time.Duration, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": ResultSuccess}
	if err != nil {
		tags["result"] = ResultError
		tags["error_class"] = obserrors.Classify(err)
	}
	sink.Count("dashboard.refresh", 1, tags)
	sink.Timing("dashboard.refresh.duration", d, tags)
}
