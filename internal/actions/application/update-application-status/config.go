// internal/actions/application/update-application-status/config.go
package updateapplicationstatus

import (
	"time"

	"application-tracker/internal/common/config"
)

type Config struct {
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
