package ports

import (
	"context"
	"time"

	"github.com/target/bizportal/internal/domain/dashboard"
	"github.com/target/bizportal/internal/domain/notify"
	"github.com/target/bizportal/internal/domain/registration"
)

// NotificationSink queues toasts for a recipient until the browser drains them.
type NotificationSink interface {
	// Push stores n for recipient and returns it with its assigned ID.
	// When n carries a DedupeKey that is still pending, nothing is queued and
	// queued is false.
	Push(ctx context.Context, recipient string, n notify.Notification) (stored notify.Notification, queued bool, err error)
	// Dismiss removes a pending notification by ID. Unknown IDs are not an error.
	Dismiss(ctx context.Context, recipient, id string) error
	// Drain returns and removes every pending notification, oldest first.
	Drain(ctx context.Context, recipient string) ([]notify.Notification, error)
}

// Registrar submits a new account to the registration service.
type Registrar interface {
	// Register makes exactly one attempt. A non-nil error means the service could
	// not be reached or answered with something other than a registration response.
	Register(ctx context.Context, req registration.Request) (registration.Response, error)
}

// StatsSource supplies the raw numbers behind the dashboard widgets.
type StatsSource interface {
	// StatsCards returns the headline cards as of now.
	StatsCards(ctx context.Context, now time.Time) ([]dashboard.StatsCard, error)
	// UsersGrowth returns one point per month of the given year, January first.
	UsersGrowth(ctx context.Context, year int) ([]dashboard.ChartPoint, error)
}
