// Package corpus holds the posting corpus and its derived, read-only index:
// per-skill monthly posting counts and per-role aggregated profiles.
package corpus

import (
	"time"

	"github.com/google/uuid"
)

// Posting is one job posting as stored. Skills are registry identities,
// tagged at ingestion time. Salary <= 0 means the posting did not report one.
type Posting struct {
	ID       uuid.UUID
	RoleName string
	Skills   []string
	Salary   float64
	Location string
	PostedAt time.Time
	Source   string
}

// MonthCount is one bucket of a skill's monthly posting-count series.
type MonthCount struct {
	Month time.Time // first day of the month, UTC
	Count int
}

// monthOf truncates a timestamp to its month bucket.
func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
