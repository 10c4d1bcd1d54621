package database

import (
	"strings"

	"application-tracker/internal/models"
)

// Criteria selects records. A nil field is unset and matches everything.
type Criteria struct {
	// Query is matched case-insensitively as a substring of Name or Email.
	Query *string
	// Course and Status must equal the stored value exactly.
	Course *string
	Status *models.Status
}

// NewCriteria builds Criteria from form-style input where blank means unset.
func NewCriteria(query, course, status string) Criteria {
	var c Criteria
	if q := strings.TrimSpace(query); q != "" {
		c.Query = &q
	}
	if v := strings.TrimSpace(course); v != "" {
		c.Course = &v
	}
	if v := strings.TrimSpace(status); v != "" {
		s := models.Status(v)
		c.Status = &s
	}
	return c
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c.Query == nil && c.Course == nil && c.Status == nil
}

// Matches reports whether r satisfies every set criterion.
func (c Criteria) Matches(r models.Application) bool {
	if c.Query != nil {
		q := strings.ToLower(*c.Query)
		if !strings.Contains(strings.ToLower(r.Name), q) &&
			!strings.Contains(strings.ToLower(models.Deref(r.Email)), q) {
			return false
		}
	}
	if c.Course != nil && models.Deref(r.Course) != *c.Course {
		return false
	}
	if c.Status != nil && r.Status != *c.Status {
		return false
	}
	return true
}

// Filter returns the records matching c, preserving order. The input is not
// modified and the result is never nil.
func Filter(records []models.Application, c Criteria) []models.Application {
	out := make([]models.Application, 0, len(records))
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
