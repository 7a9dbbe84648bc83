// Package notify defines the user-facing notification (toast) shape shared by
// the route guard and the registration flow.
package notify

import "time"

// Severity controls how a notification is presented.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityLoading Severity = "loading"
)

// Notification is a single toast queued for a recipient.
type Notification struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	// DedupeKey suppresses identical notifications while one is still pending.
	// Empty means no suppression.
	DedupeKey string    `json:"dedupe_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Error builds an error notification de-duplicated on its message.
func Error(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityError, DedupeKey: msg}
}

// Success builds a success notification.
func Success(msg string) Notification {
	return Notification{Message: msg, Severity: SeveritySuccess}
}

// Loading builds a loading notification; callers dismiss it by ID.
func Loading(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityLoading}
}
