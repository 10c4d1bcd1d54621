// internal/actions/application/update-application-record/config.go
package updateapplicationrecord

import (
	"time"

	"application-tracker/internal/common/config"
)

type Config struct {
	// NotifyOnStatusChange sends an applicant email when the saved status
	// differs from the previous one.
	NotifyOnStatusChange bool
	Timeout              time.Duration
}

func LoadConfig(cfg config.NotificationConfig) *Config {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		NotifyOnStatusChange: cfg.Email.Enabled,
		Timeout:              timeout,
	}
}
