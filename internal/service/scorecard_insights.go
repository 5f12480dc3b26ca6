package service

import (
	"fmt"
	"math"

	"github.com/limbo/atomic/pkg/entity"
)

// Summary is the scorecard totals block.
type Summary struct {
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
	Net      int    `json:"net"`
	Insight  string `json:"insight"`
}

// BucketStats is one time-of-day row of the breakdown table.
type BucketStats struct {
	TimeOfDay   entity.TimeOfDay `json:"time_of_day"`
	Total       int              `json:"total"`
	Positive    int              `json:"positive"`
	Negative    int              `json:"negative"`
	Neutral     int              `json:"neutral"`
	NegativePct int              `json:"negative_pct"`
	Label       string           `json:"label"`
}

// ActionCallout suggests replacing one negative habit.
type ActionCallout struct {
	Entry      *entity.ScorecardEntry `json:"entry"`
	TimeOfDay  entity.TimeOfDay       `json:"time_of_day"`
	Suggestion string                 `json:"suggestion"`
}

func replacementSuggestion(habitName string) string {
	return fmt.Sprintf("Replace %q with a 5-minute walk.", habitName)
}

// Summarize tallies the entries and picks the one-line insight shown above
// the scorecard.
func Summarize(entries []*entity.ScorecardEntry) Summary {
	s := Summary{}
	for _, e := range entries {
		switch e.Rating {
		case entity.RatingPositive:
			s.Positive++
		case entity.RatingNegative:
			s.Negative++
		default:
			s.Neutral++
		}
	}
	s.Net = s.Positive - s.Negative
	switch {
	case s.Net > 0:
		s.Insight = "You're building momentum."
	case s.Net < 0:
		s.Insight = "Focus on one habit to turn it around."
	default:
		s.Insight = "One more positive habit will tip the scale."
	}
	return s
}

// BucketBreakdown aggregates entries per time of day, in the fixed
// morning-to-anytime order. Buckets with no entries are skipped.
func BucketBreakdown(entries []*entity.ScorecardEntry) []BucketStats {
	rows := make([]BucketStats, 0, len(entity.TimesOfDay))
	for _, tod := range entity.TimesOfDay {
		row := BucketStats{TimeOfDay: tod}
		for _, e := range entries {
			if e.TimeOfDay != tod {
				continue
			}
			row.Total++
			switch e.Rating {
			case entity.RatingPositive:
				row.Positive++
			case entity.RatingNegative:
				row.Negative++
			default:
				row.Neutral++
			}
		}
		if row.Total == 0 {
			continue
		}
		row.NegativePct = pct(row.Negative, row.Total)
		row.Label = bucketLabel(row)
		rows = append(rows, row)
	}
	return rows
}

// bucketLabel requires a strict majority over the opposite sign and at
// least as many entries as neutral; every tie reads as neutral.
func bucketLabel(row BucketStats) string {
	switch {
	case row.Positive > row.Negative && row.Positive >= row.Neutral:
		return fmt.Sprintf("%d%% positive", pct(row.Positive, row.Total))
	case row.Negative > row.Positive && row.Negative >= row.Neutral:
		return fmt.Sprintf("%d%% negative", pct(row.Negative, row.Total))
	default:
		return "Neutral"
	}
}

func pct(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// WorstTime is the first bucket holding the maximum negative share, in
// fixed order. Nil when nothing is negative anywhere. Shares are compared
// exactly via cross-products so rounding never masks a real difference.
func WorstTime(rows []BucketStats) *entity.TimeOfDay {
	var worst *entity.TimeOfDay
	bestNeg, bestTotal := 0, 1
	for i := range rows {
		if rows[i].Negative*bestTotal > bestNeg*rows[i].Total {
			bestNeg, bestTotal = rows[i].Negative, rows[i].Total
			worst = &rows[i].TimeOfDay
		}
	}
	return worst
}

// TakeAction decides whether to show the replacement callout: the audit
// needs at least 3 entries and at least one negative. The highlighted
// entry is the first negative in the worst bucket.
func TakeAction(entries []*entity.ScorecardEntry, rows []BucketStats) *ActionCallout {
	if len(entries) < 3 {
		return nil
	}
	worst := WorstTime(rows)
	if worst == nil {
		return nil
	}
	for _, e := range entries {
		if e.TimeOfDay == *worst && e.Rating == entity.RatingNegative {
			return &ActionCallout{
				Entry:      e,
				TimeOfDay:  *worst,
				Suggestion: replacementSuggestion(e.HabitName),
			}
		}
	}
	return nil
}
