// Package errors provides the typed errors surfaced by the record store and
// the application actions.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeStorageRead  ErrorCode = "STORAGE_READ_FAILED"
	ErrCodeStorageWrite ErrorCode = "STORAGE_WRITE_FAILED"
	ErrCodeNotFound     ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeValidation   ErrorCode = "VALIDATION_FAILED"

	ErrCodeExportFailed           ErrorCode = "EXPORT_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Fields    []FieldError           `json:"fields,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another *StandardError by code, so errors.Is(err, ErrNotFound)
// works for any not-found error.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrStorageRead  = &StandardError{Code: ErrCodeStorageRead}
	ErrStorageWrite = &StandardError{Code: ErrCodeStorageWrite}
	ErrNotFound     = &StandardError{Code: ErrCodeNotFound}
	ErrValidation   = &StandardError{Code: ErrCodeValidation}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewStorageReadError reports a missing, unreadable or malformed table file.
func NewStorageReadError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageRead,
		Message:   "Could not read the applications file",
		Details:   causeText(err),
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewStorageWriteError reports an I/O failure while saving the table.
func NewStorageWriteError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageWrite,
		Message:   "Could not save the applications file",
		Details:   causeText(err),
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotFoundError reports that no record carries the given identifier.
func NewNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("No application with ID %q", id),
		Metadata:  map[string]interface{}{"id": id},
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError reports malformed input.
func NewValidationError(details string, fields ...FieldError) *StandardError {
	if details == "" && len(fields) > 0 {
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = f.Field + ": " + f.Message
		}
		details = strings.Join(parts, "; ")
	}
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   "Invalid application data",
		Details:   details,
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}
}

// NewExportFailedError reports a spreadsheet encoding failure.
func NewExportFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportFailed,
		Message:   "Could not build the spreadsheet",
		Details:   causeText(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotificationSendFailedError reports a failed applicant notification.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification could not be sent",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, causeText(err)),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Helper Functions
// ==========================

// CodeOf returns the code of the first StandardError in err's chain.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	return stderrors.Is(err, ErrValidation)
}

// IsStorage reports whether err came from reading or writing the table file.
func IsStorage(err error) bool {
	return stderrors.Is(err, ErrStorageRead) || stderrors.Is(err, ErrStorageWrite)
}

// GetErrorCategory groups codes for logs and metrics.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeStorageRead, ErrCodeStorageWrite:
		return "storage"
	case ErrCodeNotFound, ErrCodeValidation:
		return "input"
	case ErrCodeExportFailed, ErrCodeNotificationSendFailed:
		return "integration"
	default:
		return "internal"
	}
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
