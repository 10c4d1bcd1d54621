// internal/actions/application/create-application-record/handler.go
package createapplicationrecord

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
	ActionName = "create-application-record"
)

// Store is the part of the record store the handler needs.
type Store interface {
	Append(record models.Application) error
	FindByID(id string) (models.Application, int, error)
}

// Notifier delivers applicant notifications. Failures never fail the create.
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := h.execute(ctx, input)
	if err != nil {
		metrics.ActionsFailed.WithLabelValues(ActionName, string(apperrors.CodeOf(err))).Inc()
		return nil, err
	}
	return output, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	app := validation.Normalize(models.Application{
		ID:     input.ID,
		Name:   input.Name,
		Course: models.Optional(input.Course),
		Email:  models.Optional(input.Email),
		Status: models.Status(input.Status),
	})
	if app.Status == "" {
		app.Status = h.config.InitialStatus
	}

	if err := h.validator.ValidateApplication(app); err != nil {
		return nil, err
	}

	// Duplicate ids are allowed; lookups resolve to the first one.
	if _, pos, err := h.store.FindByID(app.ID); err == nil {
		h.logger.Warn("application id already in use", map[string]interface{}{
			"applicationId": app.ID,
			"position":      pos,
		})
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	if err := h.store.Append(app); err != nil {
		return nil, err
	}

	h.logger.Info("application record created", map[string]interface{}{
		"applicationId": app.ID,
		"status":        string(app.Status),
	})

	return &Output{
		Application:  app,
		Notification: h.notify(ctx, app),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) notify(ctx context.Context, app models.Application) *sendnotification.Output {
	if h.notifier == nil || !h.config.NotifyOnCreate {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	out, err := h.notifier.Execute(ctx, sendnotification.NewApplicationReceivedInput(app))
	if err != nil {
		h.logger.Warn("application received notification failed", map[string]interface{}{
			"error":         err,
			"applicationId": app.ID,
		})
		return nil
	}
	return out
}
