// internal/actions/application/summary-report/models.go
package summaryreport

import "application-tracker/internal/models"

type Input struct{}

type Row struct {
	Status     models.Status `json:"status"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"` // one decimal place
	Known      bool          `json:"known"`
}

type Output struct {
	Total       int    `json:"total"`
	Rows        []Row  `json:"rows"`
	GeneratedAt string `json:"generatedAt"` // ISO 8601
}

// Count returns the reported count for status.
func (o *Output) Count(status models.Status) int {
	for _, r := range o.Rows {
		if r.Status == status {
			return r.Count
		}
	}
	return 0
}
