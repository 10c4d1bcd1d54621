// Package validation checks application records before they are written.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/models"
)

// Validator enforces the record rules, including membership of the
// configured status set.
type Validator struct {
	validate *validator.Validate
	allowed  []models.Status
}

// New returns a Validator accepting only the given statuses.
func New(allowed []models.Status) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	out := &Validator{validate: v, allowed: append([]models.Status(nil), allowed...)}
	// RegisterValidation only fails for empty tags or reserved names
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return out.IsAllowed(models.Status(fl.Field().String()))
	})
	// csv reads CR LF inside a quoted field back as LF
	_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !HasLineBreak(fl.Field().String())
	})
	return out
}

// HasLineBreak reports whether s holds a CR or LF.
func HasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

// IsAllowed reports whether s is one of the configured statuses.
func (v *Validator) IsAllowed(s models.Status) bool {
	for _, a := range v.allowed {
		if a == s {
			return true
		}
	}
	return false
}

// ValidateApplication returns a ValidationError listing every invalid field.
func (v *Validator) ValidateApplication(app models.Application) error {
	err := v.validate.Struct(app)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error())
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: v.message(fe),
			Code:    strings.ToUpper(fe.Tag()),
		})
	}
	return apperrors.NewValidationError("", fields...)
}

// ValidateStatus checks a single status value.
func (v *Validator) ValidateStatus(s models.Status) error {
	if v.IsAllowed(s) {
		return nil
	}
	return apperrors.NewValidationError("", apperrors.FieldError{
		Field:   "status",
		Message: v.statusMessage(),
		Code:    "STATUS",
	})
}

func (v *Validator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "status":
		return v.statusMessage()
	case "singleline":
		return "must not contain line breaks"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func (v *Validator) statusMessage() string {
	return fmt.Sprintf("must be one of: %s", strings.Join(models.StatusStrings(v.allowed), ", "))
}

// Normalize trims user input; blank optional fields become nil.
func Normalize(app models.Application) models.Application {
	return models.Application{
		ID:     strings.TrimSpace(app.ID),
		Name:   strings.TrimSpace(app.Name),
		Course: models.Optional(strings.TrimSpace(models.Deref(app.Course))),
		Email:  models.Optional(strings.TrimSpace(models.Deref(app.Email))),
		Status: models.Status(strings.TrimSpace(string(app.Status))),
	}
}
