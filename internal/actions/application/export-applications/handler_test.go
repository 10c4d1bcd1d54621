package exportapplications

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

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
	require.NoError(t, store.Append(models.Application{ID: "007", Name: "Ann", Course: models.Optional("CS"), Email: models.Optional("ann@x.com"), Status: models.StatusSubmitted}))
	require.NoError(t, store.Append(models.Application{ID: "008", Name: "Bob", Status: models.StatusAccepted}))
	return store
}

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestHandler_Execute_AllRecords(t *testing.T) {
	handler := NewHandler(LoadConfig(config.ExportConfig{}), createTestStore(t), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Equal(t, "applications.xlsx", output.FileName)
	assert.Equal(t, ContentTypeXLSX, output.ContentType)
	assert.Equal(t, 2, output.Rows)

	rows := readRows(t, output.Data, "Students")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Name", "Course", "Email", "Status"}, rows[0])
	assert.Equal(t, []string{"007", "Ann", "CS", "ann@x.com", "Submitted"}, rows[1])
	assert.Equal(t, "008", rows[2][0])
	assert.Equal(t, "Accepted", rows[2][4])
}

func TestHandler_Execute_FilteredSet(t *testing.T) {
	handler := NewHandler(LoadConfig(config.ExportConfig{SheetName: "Applicants"}), createTestStore(t), logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{Status: "Accepted"})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Rows)
	rows := readRows(t, output.Data, "Applicants")
	require.Len(t, rows, 2)
	assert.Equal(t, "Bob", rows[1][1])
}

func TestHandler_Execute_EmptyTableHasHeaderOnly(t *testing.T) {
	store := database.NewCSVStore(config.StoreConfig{Path: filepath.Join(t.TempDir(), "a.csv")}, logger.NewNoOpLogger())
	require.NoError(t, store.Initialize())
	handler := NewHandler(LoadConfig(config.ExportConfig{}), store, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	rows := readRows(t, output.Data, "Students")
	require.Len(t, rows, 1)
	assert.Equal(t, models.Columns, rows[0])
}

func TestHandler_Execute_KeepsFileColumnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.csv")
	require.NoError(t, os.WriteFile(path, []byte("Status,ID,Name\nAccepted,1,Ann\n"), 0o644))
	store := database.NewCSVStore(config.StoreConfig{Path: path}, logger.NewNoOpLogger())
	handler := NewHandler(LoadConfig(config.ExportConfig{}), store, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	rows := readRows(t, output.Data, "Students")
	assert.Equal(t, [][]string{{"Status", "ID", "Name"}, {"Accepted", "1", "Ann"}}, rows)
}

func TestHandler_Execute_WritesFile(t *testing.T) {
	handler := NewHandler(LoadConfig(config.ExportConfig{}), createTestStore(t), logger.NewNoOpLogger())
	target := filepath.Join(t.TempDir(), "out.xlsx")

	output, err := handler.Execute(context.Background(), &Input{Path: target})

	require.NoError(t, err)
	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, output.Data, written)
}

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("missing table", func(t *testing.T) {
		store := database.NewCSVStore(config.StoreConfig{Path: filepath.Join(t.TempDir(), "none.csv")}, logger.NewNoOpLogger())
		handler := NewHandler(LoadConfig(config.ExportConfig{}), store, logger.NewNoOpLogger())

		_, err := handler.Execute(context.Background(), &Input{})
		assert.Equal(t, apperrors.ErrCodeStorageRead, apperrors.CodeOf(err))
	})

	t.Run("unwritable target", func(t *testing.T) {
		handler := NewHandler(LoadConfig(config.ExportConfig{}), createTestStore(t), logger.NewNoOpLogger())
		target := filepath.Join(t.TempDir(), "no-such-dir", "out.xlsx")

		_, err := handler.Execute(context.Background(), &Input{Path: target})
		assert.Equal(t, apperrors.ErrCodeExportFailed, apperrors.CodeOf(err))
	})
}
