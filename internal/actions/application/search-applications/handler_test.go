package searchapplications

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"application-tracker/internal/common/config"
	"application-tracker/internal/common/database"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/models"
)

func createTestStore(t *testing.T) *database.CSVStore {
	t.Helper()
	store := database.NewCSVStore(
		config.StoreConfig{Path: filepath.Join(t.TempDir(), "applications.csv")},
		logger.NewNoOpLogger(),
	)
	require.NoError(t, store.Initialize())
	for _, app := range []models.Application{
		{ID: "1", Name: "Ann Lee", Course: models.Optional("CS"), Email: models.Optional("ann@x.com"), Status: models.StatusSubmitted},
		{ID: "2", Name: "Bob Stone", Course: models.Optional("Math"), Email: models.Optional("bob@x.com"), Status: models.StatusAccepted},
		{ID: "3", Name: "Cara Diaz", Course: models.Optional("CS"), Status: models.StatusAccepted},
	} {
		require.NoError(t, store.Append(app))
	}
	return store
}

func names(apps []models.Application) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.Name
	}
	return out
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		want  []string
	}{
		{"no criteria", &Input{}, []string{"Ann Lee", "Bob Stone", "Cara Diaz"}},
		{"query on name", &Input{Query: "STONE"}, []string{"Bob Stone"}},
		{"query on email", &Input{Query: "ann@"}, []string{"Ann Lee"}},
		{"course", &Input{Course: "CS"}, []string{"Ann Lee", "Cara Diaz"}},
		{"course and status", &Input{Course: "CS", Status: "Accepted"}, []string{"Cara Diaz"}},
		{"absent status", &Input{Status: "Rejected"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(config.SearchConfig{}), createTestStore(t), logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, names(output.Applications))
			assert.Equal(t, len(tt.want), output.Matched)
			assert.Equal(t, 3, output.Total)
			assert.False(t, output.Truncated)
		})
	}
}

func TestHandler_Execute_MaxResults(t *testing.T) {
	handler := NewHandler(&Config{MaxResults: 2}, createTestStore(t), logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Len(t, output.Applications, 2)
	assert.Equal(t, 3, output.Matched)
	assert.True(t, output.Truncated)
}

func TestHandler_Execute_StorageError(t *testing.T) {
	store := database.NewCSVStore(config.StoreConfig{Path: filepath.Join(t.TempDir(), "missing.csv")}, logger.NewNoOpLogger())
	handler := NewHandler(LoadConfig(config.SearchConfig{}), store, logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), &Input{})

	assert.Equal(t, apperrors.ErrCodeStorageRead, apperrors.CodeOf(err))
}

func TestLoadConfig(t *testing.T) {
	assert.Zero(t, LoadConfig(config.SearchConfig{}).MaxResults)
	assert.Equal(t, 25, LoadConfig(config.SearchConfig{MaxResults: 25}).MaxResults)
}
