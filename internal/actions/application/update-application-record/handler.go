// internal/actions/application/update-application-record/handler.go
package updateapplicationrecord

import (
	"context"
	"time"

	sendnotification "application-tracker/internal/actions/application/send-notification"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/common/metrics"
	"application-tracker/internal/common/validation"
	"application-tracker/internal/models"
)

const (
	ActionName = "update-application-record"
)

// Store is the part of the record store the handler needs.
type Store interface {
	FindByID(id string) (models.Application, int, error)
	UpdateByID(id string, record models.Application) error
}

// Notifier delivers applicant notifications. Failures never fail the update.
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

// NewHandler builds the handler. notifier may be nil.
func NewHandler(config *Config, store Store, validator *validation.Validator, notifier Notifier, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		store:     store,
		validator: validator,
		notifier:  notifier,
		logger:    log.WithFields(map[string]interface{}{"action": ActionName}),
	}
}

// Prefill returns the stored record so a form can be shown with its
// current values.
func (h *Handler) Prefill(_ context.Context, id string) (models.Application, error) {
	app, _, err := h.store.FindByID(id)
	if err != nil {
		metrics.ActionsFailed.WithLabelValues(ActionName, string(apperrors.CodeOf(err))).Inc()
		return models.Application{}, err
	}
	return app, nil
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
	previous, _, err := h.store.FindByID(input.TargetID)
	if err != nil {
		return nil, err
	}

	app := validation.Normalize(models.Application{
		ID:     input.ID,
		Name:   input.Name,
		Course: models.Optional(input.Course),
		Email:  models.Optional(input.Email),
		Status: models.Status(input.Status),
	})
	if app.ID == "" {
		app.ID = input.TargetID
	}

	if err := h.validator.ValidateApplication(app); err != nil {
		return nil, err
	}

	if err := h.store.UpdateByID(input.TargetID, app); err != nil {
		return nil, err
	}

	output := &Output{
		Application:   app,
		Previous:      previous,
		StatusChanged: previous.Status != app.Status,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Info("application record replaced", map[string]interface{}{
		"applicationId":  input.TargetID,
		"newId":          app.ID,
		"statusChanged":  output.StatusChanged,
		"previousStatus": string(previous.Status),
		"status":         string(app.Status),
	})

	if output.StatusChanged {
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
