// internal/actions/application/send-notification/config.go
package sendnotification

import (
	"time"

	"application-tracker/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	FromEmail    string
	AWSRegion    string
	Timeout      time.Duration
}

func LoadConfig(cfg config.NotificationConfig) *Config {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		EmailEnabled: cfg.Email.Enabled,
		FromEmail:    cfg.Email.FromEmail,
		AWSRegion:    cfg.AWS.Region,
		Timeout:      timeout,
	}
}
