// internal/actions/application/search-applications/handler.go
package searchapplications

import (
	"context"

	"application-tracker/internal/common/database"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/common/metrics"
	"application-tracker/internal/models"
)

const (
	ActionName = "search-applications"
)

type Store interface {
	LoadAll() ([]models.Application, error)
}

type Handler struct {
	config *Config
	store  Store
	logger logger.Logger
}

func NewHandler(config *Config, store Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"action": ActionName}),
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	records, err := h.store.LoadAll()
	if err != nil {
		return nil, err
	}

	criteria := database.NewCriteria(input.Query, input.Course, input.Status)
	matched := database.Filter(records, criteria)

	output := &Output{
		Applications: matched,
		Matched:      len(matched),
		Total:        len(records),
	}
	if h.config.MaxResults > 0 && len(matched) > h.config.MaxResults {
		output.Applications = matched[:h.config.MaxResults]
		output.Truncated = true
	}

	h.logger.Debug("applications searched", map[string]interface{}{
		"query":   input.Query,
		"course":  input.Course,
		"status":  input.Status,
		"matched": output.Matched,
		"total":   output.Total,
	})
	return output, nil
}
