package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/limbo/atomic/pkg/design"
)

type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Identity struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"uid"`
	Statement string    `json:"statement"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekends Frequency = "weekends"
	FrequencyCustom   Frequency = "custom"
)

// Intention is a structured behavior/time/location cue. A value with all
// fields blank is normalized to nil before persisting.
type Intention struct {
	Behavior string `json:"behavior,omitempty"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
}

func (i *Intention) IsEmpty() bool {
	if i == nil {
		return true
	}
	return strings.TrimSpace(i.Behavior) == "" &&
		strings.TrimSpace(i.Time) == "" &&
		strings.TrimSpace(i.Location) == ""
}

type AnchorKind int

const (
	AnchorNone AnchorKind = iota
	AnchorScorecard
	AnchorHabit
)

// Anchor is the habit-stacking reference. The tagged form makes the two
// anchor columns mutually exclusive by construction; the repository
// translates it to the pair of nullable columns at the storage boundary.
type Anchor struct {
	Kind AnchorKind
	ID   uuid.UUID
}

// NewAnchor normalizes the two legacy nullable ids into a single anchor.
// A scorecard anchor wins over a habit anchor when both arrive set.
func NewAnchor(scorecardID, habitID *uuid.UUID) Anchor {
	if scorecardID != nil {
		return Anchor{Kind: AnchorScorecard, ID: *scorecardID}
	}
	if habitID != nil {
		return Anchor{Kind: AnchorHabit, ID: *habitID}
	}
	return Anchor{}
}

// Columns splits the anchor back into the two nullable columns.
func (a Anchor) Columns() (scorecardID, habitID *uuid.UUID) {
	switch a.Kind {
	case AnchorScorecard:
		id := a.ID
		return &id, nil
	case AnchorHabit:
		id := a.ID
		return nil, &id
	}
	return nil, nil
}

type Habit struct {
	ID                uuid.UUID     `json:"id"`
	UserID            uuid.UUID     `json:"uid"`
	IdentityID        *uuid.UUID    `json:"identity_id,omitempty"`
	Name              string        `json:"name"`
	TwoMinuteVersion  string        `json:"two_minute_version,omitempty"`
	Intention         *Intention    `json:"implementation_intention,omitempty"`
	Anchor            Anchor        `json:"-"`
	TemptationBundle  string        `json:"temptation_bundle,omitempty"`
	DesignBuild       *design.Build `json:"design_build,omitempty"`
	Frequency         Frequency     `json:"frequency"`
	IsActive          bool          `json:"is_active"`
	SortOrder         int           `json:"sort_order"`
	CurrentStreak     int           `json:"current_streak"`
	LastCompletedDate *string       `json:"last_completed_date,omitempty"`
	ArchivedAt        *time.Time    `json:"archived_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// HasDesignFields reports whether any planning field is filled in, across
// the 4 Laws template and the legacy flat fields. Drives the "design this
// habit" prompt.
func (h *Habit) HasDesignFields() bool {
	if !design.BuildIsEmpty(h.DesignBuild) {
		return true
	}
	if !h.Intention.IsEmpty() {
		return true
	}
	return strings.TrimSpace(h.TwoMinuteVersion) != "" ||
		strings.TrimSpace(h.TemptationBundle) != "" ||
		h.Anchor.Kind != AnchorNone
}

type Rating string

const (
	RatingPositive Rating = "+"
	RatingNegative Rating = "-"
	RatingNeutral  Rating = "="
)

type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeAnytime   TimeOfDay = "anytime"
)

// TimesOfDay is the fixed iteration order used by scorecard aggregation
// and its tie-breaking.
var TimesOfDay = []TimeOfDay{TimeMorning, TimeAfternoon, TimeEvening, TimeAnytime}

type ScorecardEntry struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"uid"`
	HabitName  string     `json:"habit_name"`
	Rating     Rating     `json:"rating"`
	TimeOfDay  TimeOfDay  `json:"time_of_day"`
	SortOrder  int        `json:"sort_order"`
	IdentityID *uuid.UUID `json:"identity_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type HabitToBreak struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"uid"`
	IdentityID  uuid.UUID     `json:"identity_id"`
	Name        string        `json:"name"`
	DesignBreak *design.Break `json:"design_break,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// WeeklyRating is the per-week review row, keyed (user, habit, week_start).
// WeekStart is the ISO date of that week's Monday.
type WeeklyRating struct {
	UserID          uuid.UUID  `json:"uid"`
	HabitID         uuid.UUID  `json:"habit_id"`
	WeekStart       string     `json:"week_start"`
	Rating          Rating     `json:"rating"`
	Friction        *string    `json:"friction,omitempty"`
	AdviceAppliedAt *time.Time `json:"advice_applied_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
