package createapplicationrecord

import (
	"context"
	"errors"
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

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{InitialStatus: models.StatusSubmitted, Timeout: 5 * time.Second}
}

func createTestInput() *Input {
	return &Input{
		ID:     "007",
		Name:   "Ann Lee",
		Course: "Computer Science",
		Email:  "ann@example.com",
	}
}

func createTestStore(t *testing.T) *database.CSVStore {
	t.Helper()
	store := database.NewCSVStore(
		config.StoreConfig{Path: filepath.Join(t.TempDir(), "applications.csv")},
		logger.NewNoOpLogger(),
	)
	require.NoError(t, store.Initialize())
	return store
}

func createTestHandler(t *testing.T, store Store) *Handler {
	t.Helper()
	return NewHandler(createTestConfig(), store, validation.New(models.DefaultStatuses), nil, logger.NewTestLogger(t))
}

type recordingNotifier struct {
	inputs []*sendnotification.Input
	err    error
}

func (r *recordingNotifier) Execute(_ context.Context, input *sendnotification.Input) (*sendnotification.Output, error) {
	r.inputs = append(r.inputs, input)
	if r.err != nil {
		return nil, r.err
	}
	return &sendnotification.Output{NotificationID: "n-1", Status: sendnotification.StatusSent}, nil
}

type failingStore struct {
	err error
}

func (f *failingStore) Append(models.Application) error { return f.err }
func (f *failingStore) FindByID(id string) (models.Application, int, error) {
	return models.Application{}, -1, apperrors.NewNotFoundError(id)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	store := createTestStore(t)
	handler := createTestHandler(t, store)

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, "007", output.Application.ID)
	assert.Equal(t, models.StatusSubmitted, output.Application.Status)
	assert.NotEmpty(t, output.CreatedAt)

	records, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, output.Application, records[0])
}

func TestHandler_Execute_KeepsExplicitStatus(t *testing.T) {
	store := createTestStore(t)
	handler := createTestHandler(t, store)

	input := createTestInput()
	input.Status = "Under Review"
	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, output.Application.Status)
}

func TestHandler_Execute_TrimsAndDropsBlankOptionals(t *testing.T) {
	store := createTestStore(t)
	handler := createTestHandler(t, store)

	output, err := handler.Execute(context.Background(), &Input{ID: " 12 ", Name: " Bo ", Course: "  "})

	require.NoError(t, err)
	assert.Equal(t, "12", output.Application.ID)
	assert.Equal(t, "Bo", output.Application.Name)
	assert.Nil(t, output.Application.Course)
	assert.Nil(t, output.Application.Email)
}

func TestHandler_Execute_DuplicateIDIsAppended(t *testing.T) {
	store := createTestStore(t)
	handler := createTestHandler(t, store)

	_, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	second := createTestInput()
	second.Name = "Someone Else"
	_, err = handler.Execute(context.Background(), second)
	require.NoError(t, err)

	records, err := store.LoadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)

	first, _, err := store.FindByID("007")
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", first.Name)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
		field  string
	}{
		{"missing id", func(in *Input) { in.ID = "" }, "id"},
		{"missing name", func(in *Input) { in.Name = "   " }, "name"},
		{"bad email", func(in *Input) { in.Email = "ann-at-example" }, "email"},
		{"unknown status", func(in *Input) { in.Status = "Enrolled" }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStore(t)
			handler := createTestHandler(t, store)

			input := createTestInput()
			tt.modify(input)
			output, err := handler.Execute(context.Background(), input)

			assert.Nil(t, output)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			require.NotEmpty(t, stdErr.Fields)
			assert.Equal(t, tt.field, stdErr.Fields[0].Field)

			records, err := store.LoadAll()
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestHandler_Execute_StorageError(t *testing.T) {
	writeErr := apperrors.NewStorageWriteError("applications.csv", errors.New("disk full"))
	handler := createTestHandler(t, &failingStore{err: writeErr})

	_, err := handler.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeStorageWrite, apperrors.CodeOf(err))
}

func TestHandler_Execute_MissingTable(t *testing.T) {
	store := database.NewCSVStore(
		config.StoreConfig{Path: filepath.Join(t.TempDir(), "absent.csv")},
		logger.NewNoOpLogger(),
	)
	handler := createTestHandler(t, store)

	_, err := handler.Execute(context.Background(), createTestInput())

	assert.Equal(t, apperrors.ErrCodeStorageRead, apperrors.CodeOf(err))
}

func TestHandler_Execute_NotifiesApplicant(t *testing.T) {
	cfg := createTestConfig()
	cfg.NotifyOnCreate = true
	notifier := &recordingNotifier{}
	handler := NewHandler(cfg, createTestStore(t), validation.New(models.DefaultStatuses), notifier, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	require.Len(t, notifier.inputs, 1)
	sent := notifier.inputs[0]
	assert.Equal(t, sendnotification.TypeApplicationReceived, sent.NotificationType)
	assert.Equal(t, "007", sent.ApplicationID)
	assert.Equal(t, "ann@example.com", sent.RecipientEmail)
	assert.Equal(t, string(models.StatusSubmitted), sent.Status)
	require.NotNil(t, output.Notification)
	assert.Equal(t, sendnotification.StatusSent, output.Notification.Status)
}

func TestHandler_Execute_NotificationFailureDoesNotFailCreate(t *testing.T) {
	cfg := createTestConfig()
	cfg.NotifyOnCreate = true
	store := createTestStore(t)
	notifier := &recordingNotifier{err: errors.New("template not found")}
	handler := NewHandler(cfg, store, validation.New(models.DefaultStatuses), notifier, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Nil(t, output.Notification)
	records, err := store.LoadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestHandler_Execute_NoNotificationWhenDisabled(t *testing.T) {
	notifier := &recordingNotifier{}
	handler := NewHandler(createTestConfig(), createTestStore(t), validation.New(models.DefaultStatuses), notifier, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Empty(t, notifier.inputs)
	assert.Nil(t, output.Notification)
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.StatusConfig{}, config.NotificationConfig{})
	assert.Equal(t, models.StatusSubmitted, cfg.InitialStatus)
	assert.False(t, cfg.NotifyOnCreate)
	assert.Equal(t, 10*time.Second, cfg.Timeout)

	nc := config.NotificationConfig{Timeout: 2500}
	nc.Email.Enabled = true
	cfg = LoadConfig(config.StatusConfig{Initial: "Applied"}, nc)
	assert.Equal(t, models.Status("Applied"), cfg.InitialStatus)
	assert.True(t, cfg.NotifyOnCreate)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
}
