// internal/actions/application/summary-report/handler.go
package summaryreport

import (
	"context"
	"math"
	"time"

	"application-tracker/internal/common/database"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/common/metrics"
	"application-tracker/internal/models"
)

const (
	ActionName = "summary-report"
)

type Store interface {
	Summary(known []models.Status) (database.Summary, error)
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

func (h *Handler) execute(_ context.Context, _ *Input) (*Output, error) {
	summary, err := h.store.Summary(h.config.KnownStatuses)
	if err != nil {
		return nil, err
	}

	known := make(map[models.Status]bool, len(h.config.KnownStatuses))
	for _, s := range h.config.KnownStatuses {
		known[s] = true
	}

	rows := make([]Row, 0, len(summary.Counts))
	for _, c := range summary.Counts {
		rows = append(rows, Row{
			Status:     c.Status,
			Count:      c.Count,
			Percentage: percentage(c.Count, summary.Total),
			Known:      known[c.Status],
		})
	}

	h.logger.Debug("summary generated", map[string]interface{}{
		"total":    summary.Total,
		"statuses": len(rows),
	})

	return &Output{
		Total:       summary.Total,
		Rows:        rows,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*1000/float64(total)) / 10
}
