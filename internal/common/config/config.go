// internal/common/config/config.go
package config

import (
	"time"

	"application-tracker/internal/models"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Store         StoreConfig        `mapstructure:"store"`
	Statuses      StatusConfig       `mapstructure:"statuses"`
	Server        ServerConfig       `mapstructure:"server"`
	Search        SearchConfig       `mapstructure:"search"`
	Export        ExportConfig       `mapstructure:"export"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// StoreConfig points at the CSV table file.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// StatusConfig holds the enumerated status set. Initial is assigned to new
// applications submitted without a status.
type StatusConfig struct {
	Allowed []string `mapstructure:"allowed"`
	Initial string   `mapstructure:"initial"`
}

// Known returns the configured statuses as models.Status values.
func (s StatusConfig) Known() []models.Status {
	out := make([]models.Status, len(s.Allowed))
	for i, v := range s.Allowed {
		out[i] = models.Status(v)
	}
	return out
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// SearchConfig caps the rows returned by a search. Zero means no limit.
type SearchConfig struct {
	MaxResults int `mapstructure:"max_results"`
}

// ExportConfig controls the spreadsheet download.
type ExportConfig struct {
	SheetName string `mapstructure:"sheet_name"`
	FileName  string `mapstructure:"file_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// NotificationConfig holds settings for the send-notification action.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	Timeout int `mapstructure:"timeout"` // milliseconds
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
