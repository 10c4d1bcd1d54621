package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "application-tracker/internal/common/errors"
)

// JSON schemas for the API payloads. They check shape only; record rules
// (status set, email format) are applied afterwards by Validator.
const (
	CreateApplicationSchema = `{
  "type": "object",
  "properties": {
    "id":     {"type": "string", "minLength": 1},
    "name":   {"type": "string", "minLength": 1},
    "course": {"type": ["string", "null"]},
    "email":  {"type": ["string", "null"]},
    "status": {"type": "string"}
  },
  "required": ["id", "name"],
  "additionalProperties": false
}`

	ReplaceApplicationSchema = `{
  "type": "object",
  "properties": {
    "id":     {"type": "string", "minLength": 1},
    "name":   {"type": "string", "minLength": 1},
    "course": {"type": ["string", "null"]},
    "email":  {"type": ["string", "null"]},
    "status": {"type": "string", "minLength": 1}
  },
  "required": ["name", "status"],
  "additionalProperties": false
}`

	StatusChangeSchema = `{
  "type": "object",
  "properties": {
    "status": {"type": "string", "minLength": 1}
  },
  "required": ["status"],
  "additionalProperties": false
}`
)

var (
	createSchema  = mustSchema(CreateApplicationSchema)
	replaceSchema = mustSchema(ReplaceApplicationSchema)
	statusSchema  = mustSchema(StatusChangeSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in schema: %v", err))
	}
	return s
}

// ValidateCreatePayload checks a POST /api/applications body.
func ValidateCreatePayload(body []byte) error {
	return validatePayload(createSchema, body)
}

// ValidateReplacePayload checks a PUT /api/applications/:id body.
func ValidateReplacePayload(body []byte) error {
	return validatePayload(replaceSchema, body)
}

// ValidateStatusPayload checks a PATCH /api/applications/:id/status body.
func ValidateStatusPayload(body []byte) error {
	return validatePayload(statusSchema, body)
}

func validatePayload(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("malformed JSON body: %v", err))
	}
	if result.Valid() {
		return nil
	}

	fields := make([]apperrors.FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" {
			if prop, ok := desc.Details()["property"].(string); ok && prop != "" {
				field = prop
			}
		}
		fields = append(fields, apperrors.FieldError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return apperrors.NewValidationError("", fields...)
}
