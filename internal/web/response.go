package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "application-tracker/internal/common/errors"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Details   string              `json:"details,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

// JsonOK: generic success (GET detail, PUT, PATCH)
func JsonOK(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonCreated: success for POST
func JsonCreated(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "created"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonError renders an already described error.
func JsonError(c *fiber.Ctx, resp apperrors.Response) error {
	body := ErrorResponse{
		Success:   false,
		Message:   resp.Message,
		ErrorCode: string(resp.Code),
		Details:   resp.Details,
	}
	if len(resp.Fields) > 0 {
		body.Errors = make(map[string][]string, len(resp.Fields))
		for _, f := range resp.Fields {
			body.Errors[f.Field] = append(body.Errors[f.Field], f.Message)
		}
	}
	return c.Status(resp.Status).JSON(body)
}

// jsonStatus renders a plain status without an application error behind it.
func jsonStatus(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: code,
	})
}
