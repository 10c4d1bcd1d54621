// internal/actions/application/update-application-record/models.go
package updateapplicationrecord

import (
	sendnotification "application-tracker/internal/actions/application/send-notification"
	"application-tracker/internal/models"
)

// Input is the full replacement row for the record currently stored under
// TargetID. A blank ID keeps TargetID.
type Input struct {
	TargetID string `json:"-"`
	ID       string `json:"id" form:"id"`
	Name     string `json:"name" form:"name"`
	Course   string `json:"course" form:"course"`
	Email    string `json:"email" form:"email"`
	Status   string `json:"status" form:"status"`
}

type Output struct {
	Application   models.Application       `json:"application"`
	Previous      models.Application       `json:"previous"`
	StatusChanged bool                     `json:"statusChanged"`
	Notification  *sendnotification.Output `json:"notification,omitempty"`
	UpdatedAt     string                   `json:"updatedAt"` // ISO 8601
}
