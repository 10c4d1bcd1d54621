// internal/actions/application/update-application-status/handler.go
package updateapplicationstatus

import (
	"context"
	"strings"
	"time"

	sendnotification "application-tracker/internal/actions/application/send-notification"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/common/metrics"
	"application-tracker/internal/common/validation"
	"application-tracker/internal/models"
)

const (
	ActionName = "update-application-status"
)

type Store interface {
	FindByID(id string) (models.Application, int, error)
	UpdateByID(id string, record models.Application) error
}

type Notifier interface {
	Execute(ctx context.Context, input *sendnotification.Input) (*sendnotification.Output, error)
}

type Handler struct {
	config    *Config
	store     Store
	validator *validation.Validator
	notifier  Notifier
	logger    logger.Logger
}

func NewHandler(config *Config, store Store, validator *validation.Validator, notifier Notifier, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		store:     store,
		validator: validator,
		notifier:  notifier,
		logger:    log.WithFields(map[string]interface{}{"action": ActionName}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := h.execute(ctx, input)
	if err != nil {
		metrics.ActionsFailed.WithLabelValues(ActionName, string(apperrors.CodeOf(err))).Inc()
		return nil, err
	}
	return output, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	status := models.Status(strings.TrimSpace(input.Status))
	if err := h.validator.ValidateStatus(status); err != nil {
		return nil, err
	}

	app, _, err := h.store.FindByID(input.ID)
	if err != nil {
		return nil, err
	}

	previous := app
	app.Status = status
	if err := h.store.UpdateByID(input.ID, app); err != nil {
		return nil, err
	}

	h.logger.Info("application status updated", map[string]interface{}{
		"applicationId":  input.ID,
		"previousStatus": string(previous.Status),
		"status":         string(status),
	})

	output := &Output{
		Application:    app,
		PreviousStatus: previous.Status,
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if previous.Status != status {
		output.Notification = h.notify(ctx, previous, app)
	}
	return output, nil
}

func (h *Handler) notify(ctx context.Context, previous, current models.Application) *sendnotification.Output {
	if h.notifier == nil || !h.config.NotifyOnStatusChange {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	out, err := h.notifier.Execute(ctx, sendnotification.NewStatusChangedInput(previous, current))
	if err != nil {
		h.logger.Warn("status change notification failed", map[string]interface{}{
			"error":         err,
			"applicationId": current.ID,
		})
		return nil
	}
	return out
}
