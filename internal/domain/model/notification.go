package model

import "time"

// Severity grades a user-facing notification.
type Severity string

// Notification severities.
const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Danger  Severity = "danger"
)

// DefaultNotificationDuration is how long a toast stays visible when the
// caller does not say.
const DefaultNotificationDuration = 2 * time.Second

// Notification is a fire-and-forget message for the user.
type Notification struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	Severity   Severity  `json:"severity"`
	DurationMS int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

// NewNotification builds a notification shown for the default duration.
func NewNotification(id, message string, severity Severity, at time.Time) Notification {
	return Notification{
		ID:         id,
		Message:    message,
		Severity:   severity,
		DurationMS: DefaultNotificationDuration.Milliseconds(),
		At:         at,
	}
}
