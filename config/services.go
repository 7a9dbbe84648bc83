package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeDashboardWarmer periodically refreshes the cached dashboard aggregates.
	ServiceModeDashboardWarmer ServiceMode = "dashboard-warmer"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeDashboardWarmer,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeDashboardWarmer:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, dashboard-warmer)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// DashboardWarmerConfig contains the dashboard cache warmer configuration.
type DashboardWarmerConfig struct {
	// Interval is the refresh tick interval.
	Interval time.Duration `env:"DASHBOARD_WARMER_INTERVAL" envDefault:"30s"`
}

// Sanitize applies guardrails to warmer configuration values.
func (w *DashboardWarmerConfig) Sanitize() {
	if w.Interval < 5*time.Second {
		w.Interval = 5 * time.Second
	}
}
