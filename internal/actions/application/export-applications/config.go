// internal/actions/application/export-applications/config.go
package exportapplications

import "application-tracker/internal/common/config"

type Config struct {
	SheetName string
	FileName  string
}

func LoadConfig(cfg config.ExportConfig) *Config {
	c := &Config{SheetName: cfg.SheetName, FileName: cfg.FileName}
	if c.SheetName == "" {
		c.SheetName = "Students"
	}
	if c.FileName == "" {
		c.FileName = "applications.xlsx"
	}
	return c
}
