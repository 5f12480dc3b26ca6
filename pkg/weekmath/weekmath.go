// Package weekmath computes Monday-start week bounds and weekly vote
// counts from habit completion dates. Dates are zero-padded ISO strings,
// so range checks are plain string comparisons.
package weekmath

import (
	"time"

	"github.com/limbo/atomic/pkg/entity"
)

const dateLayout = "2006-01-02"

// Range is an inclusive calendar-date range.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ThisWeekBounds returns Monday of now's week through the following
// Sunday, inclusive.
func ThisWeekBounds(now time.Time) Range {
	day := int(now.Weekday())
	offset := 1 - day
	if day == 0 {
		// Sunday belongs to the week that started 6 days earlier
		offset = -6
	}
	monday := now.AddDate(0, 0, offset)
	return Range{
		Start: monday.Format(dateLayout),
		End:   monday.AddDate(0, 0, 6).Format(dateLayout),
	}
}

// LastWeekBounds is ThisWeekBounds shifted back exactly 7 days on both ends.
func LastWeekBounds(now time.Time) Range {
	return ThisWeekBounds(now.AddDate(0, 0, -7))
}

// WeekStart returns the ISO date of the Monday of now's week. Used as the
// weekly review upsert key.
func WeekStart(now time.Time) string {
	return ThisWeekBounds(now).Start
}

// CountInRange counts habits whose last completed date falls inside r.
// A habit with no completion never contributes; one habit is at most one
// vote per week regardless of how often it was actually done.
func CountInRange(habits []*entity.Habit, r Range) int {
	count := 0
	for _, h := range habits {
		if h.LastCompletedDate == nil {
			continue
		}
		if d := *h.LastCompletedDate; d >= r.Start && d <= r.End {
			count++
		}
	}
	return count
}

// TrendDelta is this week's vote count minus last week's for the given
// habits (already filtered to one identity). Returns nil when no habit
// has any completion history, which distinguishes "no data" from a zero
// delta.
func TrendDelta(habits []*entity.Habit, now time.Time) *int {
	withHistory := make([]*entity.Habit, 0, len(habits))
	for _, h := range habits {
		if h.LastCompletedDate != nil {
			withHistory = append(withHistory, h)
		}
	}
	if len(withHistory) == 0 {
		return nil
	}
	delta := CountInRange(withHistory, ThisWeekBounds(now)) - CountInRange(withHistory, LastWeekBounds(now))
	return &delta
}
