package updateapplicationstatus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sendnotification "application-tracker/internal/actions/application/send-notification"
	"application-tracker/internal/common/config"
	"application-tracker/internal/common/database"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/common/validation"
	"application-tracker/internal/models"
)

type recordingNotifier struct {
	inputs []*sendnotification.Input
}

func (r *recordingNotifier) Execute(_ context.Context, input *sendnotification.Input) (*sendnotification.Output, error) {
	r.inputs = append(r.inputs, input)
	return &sendnotification.Output{Status: sendnotification.StatusDisabled}, nil
}

func createTestStore(t *testing.T) *database.CSVStore {
	t.Helper()
	store := database.NewCSVStore(
		config.StoreConfig{Path: filepath.Join(t.TempDir(), "applications.csv")},
		logger.NewNoOpLogger(),
	)
	require.NoError(t, store.Initialize())
	require.NoError(t, store.Append(models.Application{ID: "1", Name: "Ann", Course: models.Optional("CS"), Email: models.Optional("ann@x.com"), Status: models.StatusSubmitted}))
	require.NoError(t, store.Append(models.Application{ID: "2", Name: "Bob", Course: models.Optional("Math"), Email: models.Optional("bob@x.com"), Status: models.StatusSubmitted}))
	return store
}

func createTestHandler(t *testing.T, store Store, notifier Notifier) *Handler {
	t.Helper()
	cfg := &Config{NotifyOnStatusChange: true, Timeout: 5 * time.Second}
	return NewHandler(cfg, store, validation.New(models.DefaultStatuses), notifier, logger.NewTestLogger(t))
}

func TestHandler_Execute_Success(t *testing.T) {
	store := createTestStore(t)
	notifier := &recordingNotifier{}
	handler := createTestHandler(t, store, notifier)

	output, err := handler.Execute(context.Background(), &Input{ID: "2", Status: "Accepted"})

	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, output.PreviousStatus)
	assert.Equal(t, models.StatusAccepted, output.Application.Status)
	require.NotNil(t, output.Notification)
	require.Len(t, notifier.inputs, 1)
	assert.Equal(t, "bob@x.com", notifier.inputs[0].RecipientEmail)

	bob, _, err := store.FindByID("2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, bob.Status)
	assert.Equal(t, "Math", models.Deref(bob.Course))

	ann, _, err := store.FindByID("1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, ann.Status)
}

func TestHandler_Execute_TrimsStatus(t *testing.T) {
	store := createTestStore(t)
	handler := createTestHandler(t, store, nil)

	output, err := handler.Execute(context.Background(), &Input{ID: "1", Status: " Under Review "})

	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, output.Application.Status)
}

func TestHandler_Execute_UnchangedStatusSkipsNotification(t *testing.T) {
	store := createTestStore(t)
	notifier := &recordingNotifier{}
	handler := createTestHandler(t, store, notifier)

	output, err := handler.Execute(context.Background(), &Input{ID: "1", Status: "Submitted"})

	require.NoError(t, err)
	assert.Nil(t, output.Notification)
	assert.Empty(t, notifier.inputs)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		check func(error) bool
	}{
		{"unknown id", &Input{ID: "X", Status: "Accepted"}, apperrors.IsNotFound},
		{"status outside set", &Input{ID: "1", Status: "Enrolled"}, apperrors.IsValidation},
		{"blank status", &Input{ID: "1", Status: "  "}, apperrors.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStore(t)
			handler := createTestHandler(t, store, nil)
			before, err := os.ReadFile(store.Path())
			require.NoError(t, err)

			output, err := handler.Execute(context.Background(), tt.input)

			assert.Nil(t, output)
			assert.True(t, tt.check(err))
			after, err := os.ReadFile(store.Path())
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestHandler_Execute_CustomStatusSet(t *testing.T) {
	store := createTestStore(t)
	validator := validation.New([]models.Status{"Applied", "Shortlisted", "Rejected", "Enrolled"})
	handler := NewHandler(&Config{Timeout: time.Second}, store, validator, nil, logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), &Input{ID: "1", Status: "Enrolled"})
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), &Input{ID: "1", Status: "Accepted"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.NotificationConfig{})
	assert.False(t, cfg.NotifyOnStatusChange)
	assert.Equal(t, 10*time.Second, cfg.Timeout)

	nc := config.NotificationConfig{Timeout: 1500}
	nc.Email.Enabled = true
	cfg = LoadConfig(nc)
	assert.True(t, cfg.NotifyOnStatusChange)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
}
