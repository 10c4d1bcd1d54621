// internal/actions/application/search-applications/config.go
package searchapplications

import "application-tracker/internal/common/config"

// Config limits the size of a result page. Zero means no limit.
type Config struct {
	MaxResults int
}

func LoadConfig(cfg config.SearchConfig) *Config {
	return &Config{MaxResults: cfg.MaxResults}
}
