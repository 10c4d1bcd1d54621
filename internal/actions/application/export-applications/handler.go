// internal/actions/application/export-applications/handler.go
package exportapplications

import (
	"context"
	"fmt"

	"github.com/google/renameio/v2"
	"github.com/xuri/excelize/v2"

	"application-tracker/internal/common/database"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/common/metrics"
	"application-tracker/internal/models"
)

const (
	ActionName = "export-applications"
)

type Store interface {
	Header() ([]string, error)
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
	header, err := h.store.Header()
	if err != nil {
		return nil, err
	}
	records, err := h.store.LoadAll()
	if err != nil {
		return nil, err
	}
	records = database.Filter(records, database.NewCriteria(input.Query, input.Course, input.Status))

	data, err := buildWorkbook(h.config.SheetName, header, records)
	if err != nil {
		return nil, apperrors.NewExportFailedError(err)
	}

	if input.Path != "" {
		if err := renameio.WriteFile(input.Path, data, 0o644); err != nil {
			return nil, apperrors.NewExportFailedError(fmt.Errorf("write %s: %w", input.Path, err))
		}
	}

	h.logger.Info("applications exported", map[string]interface{}{
		"rows":  len(records),
		"bytes": len(data),
		"sheet": h.config.SheetName,
		"path":  input.Path,
	})

	return &Output{
		FileName:    h.config.FileName,
		ContentType: ContentTypeXLSX,
		Rows:        len(records),
		Data:        data,
	}, nil
}

// buildWorkbook writes one sheet: the header row followed by one row per
// record, every cell as text.
func buildWorkbook(sheet string, header []string, records []models.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return nil, err
	}
	for i, r := range records {
		if err := setRow(f, sheet, i+2, r.Row(header)); err != nil {
			return nil, err
		}
	}

	if len(header) > 0 {
		last, err := excelize.ColumnNumberToName(len(header))
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, "A", last, 20); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
