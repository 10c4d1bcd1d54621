// internal/actions/application/update-application-status/models.go
package updateapplicationstatus

import (
	sendnotification "application-tracker/internal/actions/application/send-notification"
	"application-tracker/internal/models"
)

type Input struct {
	ID     string `json:"id"`
	Status string `json:"status" form:"status"`
}

type Output struct {
	Application    models.Application       `json:"application"`
	PreviousStatus models.Status            `json:"previousStatus"`
	Notification   *sendnotification.Output `json:"notification,omitempty"`
	UpdatedAt      string                   `json:"updatedAt"` // ISO 8601
}
