package service

import (
	"github.com/limbo/atomic/pkg/entity"
)

// Step is one stage of the weekly review wizard. Steps advance strictly
// forward; going back re-renders earlier screens without undoing rows.
type Step string

const (
	StepRate     Step = "rate"
	StepFriction Step = "friction"
	StepSuggest  Step = "suggest"
	StepApply    Step = "apply"
)

// Frictions is the closed set of reasons a habit slipped this week.
var Frictions = []string{"Forgot", "Too tired", "Too busy", "Phone", "Boring", "Hard"}

func IsKnownFriction(friction string) bool {
	for _, f := range Frictions {
		if f == friction {
			return true
		}
	}
	return false
}

const defaultAdvice = "Shrink habit"

var adviceByFriction = map[string]string{
	"Forgot":    "Add cue",
	"Too tired": "Shrink habit",
	"Too busy":  "Move time",
	"Phone":     "Add cue",
	"Boring":    "Add reward",
	"Hard":      "Shrink habit",
}

// AdviceFor maps a friction to its suggested fix. Anything unrecognized
// falls back to shrinking the habit.
func AdviceFor(friction string) string {
	if advice, ok := adviceByFriction[friction]; ok {
		return advice
	}
	return defaultAdvice
}

// CanAdvance reports whether the wizard may leave the given step with the
// current ratings.
func CanAdvance(step Step, habits []*entity.Habit, ratings []*entity.WeeklyRating) bool {
	switch step {
	case StepRate:
		// every active habit rated
		rated := make(map[string]bool, len(ratings))
		for _, r := range ratings {
			rated[r.HabitID.String()] = true
		}
		for _, h := range habits {
			if !rated[h.ID.String()] {
				return false
			}
		}
		return len(habits) > 0
	case StepFriction:
		// every struggled habit names its friction
		for _, r := range ratings {
			if r.Rating == entity.RatingNegative && (r.Friction == nil || !IsKnownFriction(*r.Friction)) {
				return false
			}
		}
		return true
	case StepSuggest:
		return true
	default:
		return false
	}
}

// CurrentStep is the furthest step the wizard may sit on, given what has
// been persisted so far.
func CurrentStep(habits []*entity.Habit, ratings []*entity.WeeklyRating) Step {
	if !CanAdvance(StepRate, habits, ratings) {
		return StepRate
	}
	if !CanAdvance(StepFriction, habits, ratings) {
		return StepFriction
	}
	for _, r := range ratings {
		if r.Rating == entity.RatingNegative && r.AdviceAppliedAt == nil {
			return StepSuggest
		}
	}
	return StepApply
}
