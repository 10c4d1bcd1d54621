package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: tracker\n"))
	require.NoError(t, err)

	assert.Equal(t, "tracker", cfg.App.Name)
	assert.Equal(t, "applications.csv", cfg.Store.Path)
	assert.Equal(t, []string{"Submitted", "Under Review", "Accepted", "Rejected"}, cfg.Statuses.Allowed)
	assert.Equal(t, "Submitted", cfg.Statuses.Initial)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "Students", cfg.Export.SheetName)
	assert.Zero(t, cfg.Search.MaxResults)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Notifications.Email.Enabled)
}

func TestLoadFromFile_CustomStatuses(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
statuses:
  allowed: ["Applied", "Shortlisted", "Rejected", "Enrolled"]
  initial: Applied
store:
  path: data/students.csv
`))
	require.NoError(t, err)

	assert.Equal(t, "Applied", cfg.Statuses.Initial)
	assert.Len(t, cfg.Statuses.Known(), 4)
	assert.Equal(t, "data/students.csv", cfg.Store.Path)
}

func TestLoadFromFile_SearchLimit(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "search:\n  max_results: 50\n"))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Search.MaxResults)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("TRACKER_STORE_PATH", "/var/lib/tracker/apps.csv")
	t.Setenv("TRACKER_LOGGING_LEVEL", "debug")

	cfg, err := LoadFromFile(writeConfig(t, "store:\n  path: local.csv\n"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/tracker/apps.csv", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("SES_FROM", "noreply@school.example")

	cfg, err := LoadFromFile(writeConfig(t, `
notifications:
  email:
    enabled: true
    from_email: ${SES_FROM}
`))
	require.NoError(t, err)
	assert.Equal(t, "noreply@school.example", cfg.Notifications.Email.FromEmail)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"initial not allowed", "statuses:\n  allowed: [A, B]\n  initial: C\n", "statuses.initial"},
		{"duplicate status", "statuses:\n  allowed: [A, A]\n", "twice"},
		{"negative max results", "search:\n  max_results: -1\n", "search.max_results"},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"email without sender", "notifications:\n  email:\n    enabled: true\n", "from_email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
