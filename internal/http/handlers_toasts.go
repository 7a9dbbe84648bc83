package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/bizportal/internal/domain/notify"
)

// ToastDrainer hands out a recipient's queued notifications.
type ToastDrainer interface {
	Drain(ctx context.Context, recipient string) ([]notify.Notification, error)
}

// ToastHandlers delivers queued notifications to the browser.
type ToastHandlers struct {
	Sink   ToastDrainer
	Logger *slog.Logger
}

// Drain returns and clears the visitor's pending toasts, oldest first. A sink
// failure yields an empty list so polling never surfaces errors.
// GET /toasts.
func (h *ToastHandlers) Drain(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	recipient := VisitorFromContext(r.Context())
	if recipient == "" {
		WriteJSON(w, http.StatusOK, []notify.Notification{})
		return
	}
	list, err := h.Sink.Drain(r.Context(), recipient)
	if err != nil {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		// Whatever was drained is still delivered.
		logger.WarnContext(r.Context(), "drain notifications failed", "error", err)
	}
	if list == nil {
		list = []notify.Notification{}
	}
	WriteJSON(w, http.StatusOK, list)
}
