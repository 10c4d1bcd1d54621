// internal/actions/application/create-application-record/models.go
package createapplicationrecord

import (
	sendnotification "application-tracker/internal/actions/application/send-notification"
	"application-tracker/internal/models"
)

type Input struct {
	ID     string `json:"id" form:"id"`
	Name   string `json:"name" form:"name"`
	Course string `json:"course" form:"course"`
	Email  string `json:"email" form:"email"`
	Status string `json:"status" form:"status"`
}

type Output struct {
	Application  models.Application       `json:"application"`
	Notification *sendnotification.Output `json:"notification,omitempty"`
	CreatedAt    string                   `json:"createdAt"` // ISO 8601
}
