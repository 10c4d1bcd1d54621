// internal/models/application.go
package models

import "strings"

// Status is the lifecycle state of an application.
type Status string

const (
	StatusSubmitted   Status = "Submitted"
	StatusUnderReview Status = "Under Review"
	StatusAccepted    Status = "Accepted"
	StatusRejected    Status = "Rejected"
)

// DefaultStatuses is the predeclared set used when no list is configured.
var DefaultStatuses = []Status{
	StatusSubmitted,
	StatusUnderReview,
	StatusAccepted,
	StatusRejected,
}

// Column names of the persisted table, in canonical order.
const (
	ColumnID     = "ID"
	ColumnName   = "Name"
	ColumnCourse = "Course"
	ColumnEmail  = "Email"
	ColumnStatus = "Status"
)

// Columns is the canonical header written when a table is created.
var Columns = []string{ColumnID, ColumnName, ColumnCourse, ColumnEmail, ColumnStatus}

// Application is one student application record. Course and Email are
// optional; nil means the cell is empty.
type Application struct {
	ID     string  `json:"id" form:"id" validate:"required,singleline,max=64"`
	Name   string  `json:"name" form:"name" validate:"required,singleline,max=200"`
	Course *string `json:"course,omitempty" form:"course" validate:"omitempty,singleline,max=200"`
	Email  *string `json:"email,omitempty" form:"email" validate:"omitempty,singleline,email"`
	Status Status  `json:"status" form:"status" validate:"required,status"`
}

// Field returns the text value stored under the given column.
func (a Application) Field(column string) string {
	switch column {
	case ColumnID:
		return a.ID
	case ColumnName:
		return a.Name
	case ColumnCourse:
		return Deref(a.Course)
	case ColumnEmail:
		return Deref(a.Email)
	case ColumnStatus:
		return string(a.Status)
	}
	return ""
}

// SetField assigns a text value to the given column.
func (a *Application) SetField(column, value string) {
	switch column {
	case ColumnID:
		a.ID = value
	case ColumnName:
		a.Name = value
	case ColumnCourse:
		a.Course = Optional(value)
	case ColumnEmail:
		a.Email = Optional(value)
	case ColumnStatus:
		a.Status = Status(value)
	}
}

// Row renders the record in the given column order.
func (a Application) Row(columns []string) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = a.Field(c)
	}
	return row
}

// CanonicalColumn maps a header cell to its column name, ignoring case and
// surrounding whitespace. The second result is false for unknown columns.
func CanonicalColumn(header string) (string, bool) {
	h := strings.TrimSpace(header)
	for _, c := range Columns {
		if strings.EqualFold(h, c) {
			return c, true
		}
	}
	return "", false
}

// Optional returns nil for an empty string.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StatusStrings converts a status list for display and config.
func StatusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
