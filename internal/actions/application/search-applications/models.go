// internal/actions/application/search-applications/models.go
package searchapplications

import "application-tracker/internal/models"

// Input holds the optional criteria; blank fields are unset.
type Input struct {
	Query  string `json:"q" query:"q"`
	Course string `json:"course" query:"course"`
	Status string `json:"status" query:"status"`
}

type Output struct {
	Applications []models.Application `json:"applications"`
	Matched      int                  `json:"matched"`
	Total        int                  `json:"total"`
	Truncated    bool                 `json:"truncated,omitempty"`
}
