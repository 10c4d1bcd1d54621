// internal/actions/application/summary-report/config.go
package summaryreport

import (
	"application-tracker/internal/common/config"
	"application-tracker/internal/models"
)

type Config struct {
	// KnownStatuses are always reported, in this order, even with a zero count.
	KnownStatuses []models.Status
}

func LoadConfig(cfg config.StatusConfig) *Config {
	known := cfg.Known()
	if len(known) == 0 {
		known = models.DefaultStatuses
	}
	return &Config{KnownStatuses: known}
}
