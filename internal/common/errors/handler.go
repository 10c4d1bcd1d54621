// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
	"net/http"
	"time"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// Response is the user-facing rendering of an error.
type Response struct {
	Status  int          `json:"-"`
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// ErrorHandler turns action errors into user-visible messages at the
// boundary of each user action. Nothing is retried.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err and returns what should be shown to the user.
func (h *ErrorHandler) Handle(action string, err error) Response {
	stdErr := normalizeError(err)
	resp := Describe(stdErr)

	fields := map[string]interface{}{
		"action":        action,
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
	}
	if resp.Status >= http.StatusInternalServerError {
		h.logger.Error("action failed", fields)
	} else {
		h.logger.Warn("action rejected", fields)
	}
	return resp
}

// Describe maps an error to an HTTP status and message without logging.
func Describe(err error) Response {
	stdErr := normalizeError(err)
	return Response{
		Status:  HTTPStatus(stdErr.Code),
		Code:    stdErr.Code,
		Message: stdErr.Message,
		Details: stdErr.Details,
		Fields:  stdErr.Fields,
	}
}

// HTTPStatus returns the HTTP status used for a code.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case ErrCodeNotificationSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// normalizeError ensures we always have a StandardError
func normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   causeText(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
