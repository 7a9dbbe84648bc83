package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/bizportal/internal/domain/dashboard"
	apperrors "github.com/target/bizportal/internal/errors"
)

// DashboardQuerier serves the dashboard JSON API.
type DashboardQuerier interface {
	StatsCards(ctx context.Context) ([]dashboard.StatsCard, error)
	QueryUsersChart(ctx context.Context, active, expr string) (any, error)
}

// DashboardHandlers exposes the dashboard widgets as JSON.
type DashboardHandlers struct {
	Svc    DashboardQuerier
	Logger *slog.Logger
}

func (h *DashboardHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.HTTPStatus(err) >= http.StatusInternalServerError {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "dashboard request failed", "path", r.URL.Path, "error", err)
	}
	WriteAppError(w, err)
}

// Stats returns the headline cards.
// GET /api/dashboard/stats.
func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Svc.StatsCards(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if cards == nil {
		cards = []dashboard.StatsCard{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

// UsersChart returns the users growth chart, optionally projected through a
// JMESPath expression.
// GET /api/dashboard/users-chart?series=<key>&query=<jmespath>.
func (h *DashboardHandlers) UsersChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Svc.QueryUsersChart(r.Context(), q.Get("series"), q.Get("query"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}
