package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"application-tracker/internal/models"
)

func sampleRecords() []models.Application {
	return []models.Application{
		app("1", "Ann Lee", "CS", "ann@x.com", models.StatusSubmitted),
		app("2", "Bob Stone", "Math", "bob@uni.edu", models.StatusAccepted),
		app("3", "Cara", "", "", models.StatusSubmitted),
		app("4", "Dan", "cs", "dan@x.com", models.StatusRejected),
	}
}

func ids(records []models.Application) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no criteria returns everything", Criteria{}, []string{"1", "2", "3", "4"}},
		{"query matches name case-insensitively", NewCriteria("ann", "", ""), []string{"1"}},
		{"query matches email", NewCriteria("UNI.EDU", "", ""), []string{"2"}},
		{"query matches either field", NewCriteria("x.com", "", ""), []string{"1", "4"}},
		{"course is exact", NewCriteria("", "CS", ""), []string{"1"}},
		{"status is exact", NewCriteria("", "", "Submitted"), []string{"1", "3"}},
		{"criteria combine", NewCriteria("a", "", "Submitted"), []string{"1", "3"}},
		{"absent status", NewCriteria("", "", "Under Review"), []string{}},
		{"no match", NewCriteria("zzz", "", ""), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sampleRecords(), tt.criteria)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	records := sampleRecords()
	_ = Filter(records, NewCriteria("", "", "Accepted"))
	assert.Equal(t, sampleRecords(), records)
}

func TestNewCriteria_BlankMeansUnset(t *testing.T) {
	c := NewCriteria("  ", "", "\t")
	assert.True(t, c.IsEmpty())

	c = NewCriteria(" ann ", "CS", "Accepted")
	assert.False(t, c.IsEmpty())
	assert.Equal(t, "ann", *c.Query)
	assert.Equal(t, "CS", *c.Course)
	assert.Equal(t, models.StatusAccepted, *c.Status)
}

func TestFind(t *testing.T) {
	records := append(sampleRecords(), app("2", "Later Bob", "", "", models.StatusSubmitted))

	idx, ok := Find(records, "2")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = Find(records, "9")
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}
