// internal/actions/application/send-notification/models.go
package sendnotification

import "application-tracker/internal/models"

type Input struct {
	ApplicationID    string `json:"applicationId"`
	RecipientName    string `json:"recipientName"`
	RecipientEmail   string `json:"recipientEmail"`
	NotificationType string `json:"notificationType"`
	PreviousStatus   string `json:"previousStatus,omitempty"`
	Status           string `json:"status,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled", "skipped"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeStatusChanged       = "status_changed"
	TypeApplicationReceived = "application_received"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
	StatusSkipped  = "skipped"
)

// NewStatusChangedInput builds the notification for a record whose status
// moved from previous to current.
func NewStatusChangedInput(previous, current models.Application) *Input {
	return &Input{
		ApplicationID:    current.ID,
		RecipientName:    current.Name,
		RecipientEmail:   models.Deref(current.Email),
		NotificationType: TypeStatusChanged,
		PreviousStatus:   string(previous.Status),
		Status:           string(current.Status),
	}
}

// NewApplicationReceivedInput builds the confirmation sent when app is
// first recorded.
func NewApplicationReceivedInput(app models.Application) *Input {
	return &Input{
		ApplicationID:    app.ID,
		RecipientName:    app.Name,
		RecipientEmail:   models.Deref(app.Email),
		NotificationType: TypeApplicationReceived,
		Status:           string(app.Status),
	}
}
