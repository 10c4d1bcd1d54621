// internal/actions/application/create-application-record/config.go
package createapplicationrecord

import (
	"time"

	"application-tracker/internal/common/config"
	"application-tracker/internal/models"
)

type Config struct {
	// InitialStatus is assigned when the input leaves the status blank.
	InitialStatus models.Status
	// NotifyOnCreate sends the applicant a confirmation email.
	NotifyOnCreate bool
	Timeout        time.Duration
}

func LoadConfig(statuses config.StatusConfig, notifications config.NotificationConfig) *Config {
	initial := models.Status(statuses.Initial)
	if initial == "" {
		initial = models.StatusSubmitted
	}
	timeout := config.GetDuration(notifications.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		InitialStatus:  initial,
		NotifyOnCreate: notifications.Email.Enabled,
		Timeout:        timeout,
	}
}
