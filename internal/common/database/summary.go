package database

import (
	"sort"

	"application-tracker/internal/models"
)

// StatusCount is the number of records holding one status.
type StatusCount struct {
	Status models.Status `json:"status"`
	Count  int           `json:"count"`
}

// Summary is the per-status breakdown of a table.
type Summary struct {
	Total  int           `json:"total"`
	Counts []StatusCount `json:"counts"`
}

// Count returns the number of records with status s.
func (s Summary) Count(status models.Status) int {
	for _, c := range s.Counts {
		if c.Status == status {
			return c.Count
		}
	}
	return 0
}

// Summarize counts records per status. Every known status is listed in the
// given order, with zero when absent; statuses found in the data but not
// known follow in lexical order.
func Summarize(records []models.Application, known []models.Status) Summary {
	tally := make(map[models.Status]int, len(known))
	for _, r := range records {
		tally[r.Status]++
	}

	counts := make([]StatusCount, 0, len(known)+len(tally))
	listed := make(map[models.Status]bool, len(known))
	for _, s := range known {
		if listed[s] {
			continue
		}
		listed[s] = true
		counts = append(counts, StatusCount{Status: s, Count: tally[s]})
	}

	var extra []models.Status
	for s := range tally {
		if !listed[s] {
			extra = append(extra, s)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, s := range extra {
		counts = append(counts, StatusCount{Status: s, Count: tally[s]})
	}

	return Summary{Total: len(records), Counts: counts}
}
