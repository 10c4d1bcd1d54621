// internal/common/database/csv_store.go
package database

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"

	"application-tracker/internal/common/config"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/common/metrics"
	"application-tracker/internal/models"
)

// CSVStore persists application records as one comma-delimited file whose
// first row is the header. Every operation reads the whole file, and every
// mutation rewrites it. There is no cache between calls.
//
// Mutations from goroutines of one process are serialized; separate
// processes sharing the file are not coordinated (last full write wins).
type CSVStore struct {
	path   string
	logger logger.Logger
	mu     sync.Mutex
}

// table is the parsed file: the header in file order (canonical column
// names) and the records in row order.
type table struct {
	header  []string
	records []models.Application
}

// NewCSVStore creates a store over cfg.Path. The file is not touched until
// Initialize or the first operation.
func NewCSVStore(cfg config.StoreConfig, log logger.Logger) *CSVStore {
	return &CSVStore{
		path:   cfg.Path,
		logger: log.WithFields(map[string]interface{}{"store": cfg.Path}),
	}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Initialize creates the file containing only the header row when it does
// not exist yet. An existing file is never modified.
func (s *CSVStore) Initialize() (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOperation("initialize", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewStorageWriteError(s.path, err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return apperrors.NewStorageWriteError(s.path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(models.Columns); err != nil {
		f.Close()
		return apperrors.NewStorageWriteError(s.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return apperrors.NewStorageWriteError(s.path, err)
	}
	if err := f.Close(); err != nil {
		return apperrors.NewStorageWriteError(s.path, err)
	}

	s.logger.Info("created applications file", map[string]interface{}{
		"columns": strings.Join(models.Columns, ","),
	})
	return nil
}

// Ping checks that the file exists and parses.
func (s *CSVStore) Ping(_ context.Context) error {
	_, err := s.readTable()
	return err
}

// Close is a no-op; the store holds no open handles between calls.
func (s *CSVStore) Close() error {
	return nil
}

// LoadAll returns every record in file order.
func (s *CSVStore) LoadAll() (records []models.Application, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOperation("load_all", start, err) }()

	t, err := s.readTable()
	if err != nil {
		return nil, err
	}
	return t.records, nil
}

// Header returns the column names in the file's own order.
func (s *CSVStore) Header() (columns []string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOperation("header", start, err) }()

	t, err := s.readTable()
	if err != nil {
		return nil, err
	}
	return t.header, nil
}

// Append adds record at the end of the table and saves the whole table.
// Identifiers are not checked for uniqueness.
func (s *CSVStore) Append(record models.Application) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOperation("append", start, err) }()

	if err := checkSingleLine(record); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.readTable()
	if err != nil {
		return err
	}
	t.records = append(t.records, record)
	if err := s.writeTable(t); err != nil {
		return err
	}

	s.logger.Info("application appended", map[string]interface{}{
		"id":       record.ID,
		"position": len(t.records) - 1,
		"status":   string(record.Status),
	})
	return nil
}

// FindByID returns the first record whose ID equals id, with its zero-based
// position in file order.
func (s *CSVStore) FindByID(id string) (record models.Application, position int, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOperation("find_by_id", start, err) }()

	t, err := s.readTable()
	if err != nil {
		return models.Application{}, -1, err
	}
	idx, ok := Find(t.records, id)
	if !ok {
		return models.Application{}, -1, apperrors.NewNotFoundError(id)
	}
	return t.records[idx], idx, nil
}

// UpdateByID replaces the whole row of the first record matching id and
// saves the table. When no record matches, the file is left untouched and a
// NotFoundError is returned.
func (s *CSVStore) UpdateByID(id string, record models.Application) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOperation("update_by_id", start, err) }()

	if err := checkSingleLine(record); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.readTable()
	if err != nil {
		return err
	}
	idx, ok := Find(t.records, id)
	if !ok {
		return apperrors.NewNotFoundError(id)
	}

	previous := t.records[idx]
	t.records[idx] = record
	if err := s.writeTable(t); err != nil {
		return err
	}

	s.logger.Info("application updated", map[string]interface{}{
		"id":             id,
		"newId":          record.ID,
		"position":       idx,
		"previousStatus": string(previous.Status),
		"status":         string(record.Status),
	})
	return nil
}

// Search loads the table and applies Filter.
func (s *CSVStore) Search(c Criteria) ([]models.Application, error) {
	records, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return Filter(records, c), nil
}

// Summary loads the table and applies Summarize.
func (s *CSVStore) Summary(known []models.Status) (Summary, error) {
	records, err := s.LoadAll()
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records, known), nil
}

// Find is the linear scan behind FindByID and UpdateByID: the first exact
// match in order wins.
func Find(records []models.Application, id string) (int, bool) {
	for i, r := range records {
		if r.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *CSVStore) readTable() (*table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.NewStorageReadError(s.path, err)
	}
	defer f.Close()

	t, err := parseTable(f)
	if err != nil {
		return nil, apperrors.NewStorageReadError(s.path, err)
	}
	metrics.StoredRecords.Set(float64(len(t.records)))
	return t, nil
}

func parseTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	// zero: every row must have as many fields as the header
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty, header row missing")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	t := &table{header: columns, records: []models.Application{}}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.records)+1, err)
		}
		var app models.Application
		for i, col := range columns {
			app.SetField(col, row[i])
		}
		t.records = append(t.records, app)
	}
	return t, nil
}

func parseHeader(header []string) ([]string, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		col, ok := models.CanonicalColumn(h)
		if !ok {
			return nil, fmt.Errorf("unknown column %q in header", h)
		}
		if seen[col] {
			return nil, fmt.Errorf("column %q appears twice in header", col)
		}
		seen[col] = true
		columns[i] = col
	}

	for _, required := range []string{models.ColumnID, models.ColumnName, models.ColumnStatus} {
		if !seen[required] {
			return nil, fmt.Errorf("header is missing required column %q", required)
		}
	}
	return columns, nil
}

// writeTable saves the table through a temporary file renamed over the
// original, so a failed save leaves the previous contents in place.
func (s *CSVStore) writeTable(t *table) error {
	for _, r := range t.records {
		if col, ok := droppedColumn(t.header, r); ok {
			return apperrors.NewStorageWriteError(s.path,
				fmt.Errorf("record %q has a %s value but the file has no %s column", r.ID, col, col))
		}
	}

	pf, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(0o644))
	if err != nil {
		return apperrors.NewStorageWriteError(s.path, err)
	}
	// no-op after a successful CloseAtomicallyReplace
	defer pf.Cleanup()

	w := csv.NewWriter(pf)
	if err := w.Write(t.header); err != nil {
		return apperrors.NewStorageWriteError(s.path, err)
	}
	for _, r := range t.records {
		if err := w.Write(r.Row(t.header)); err != nil {
			return apperrors.NewStorageWriteError(s.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.NewStorageWriteError(s.path, err)
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		return apperrors.NewStorageWriteError(s.path, err)
	}
	metrics.StoredRecords.Set(float64(len(t.records)))
	return nil
}

// checkSingleLine refuses values holding CR or LF. csv reads CR LF inside a
// quoted field back as a bare LF, so such a value would not load unchanged.
func checkSingleLine(r models.Application) error {
	var fields []apperrors.FieldError
	for i, v := range r.Row(models.Columns) {
		if strings.ContainsAny(v, "\r\n") {
			fields = append(fields, apperrors.FieldError{
				Field:   strings.ToLower(models.Columns[i]),
				Message: "must not contain line breaks",
				Code:    "SINGLELINE",
			})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperrors.NewValidationError("", fields...)
}

// droppedColumn reports an optional value that the header cannot hold.
func droppedColumn(header []string, r models.Application) (string, bool) {
	has := func(col string) bool {
		for _, h := range header {
			if h == col {
				return true
			}
		}
		return false
	}
	if r.Course != nil && !has(models.ColumnCourse) {
		return models.ColumnCourse, true
	}
	if r.Email != nil && !has(models.ColumnEmail) {
		return models.ColumnEmail, true
	}
	return "", false
}
