package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/limbo/atomic/pkg/design"
	"github.com/limbo/atomic/pkg/entity"
)

type RegisterRequest struct {
	Email       string `validate:"required,email,max=254"`
	DisplayName string `validate:"required,min=1,max=100"`
	Password    string `validate:"required,min=8,max=72"`
}

type ProfileServiceI interface {
	// Validates credentials, creates new row in database. Returns profile with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.Profile, error)
	// Compares given credentials. If ok, gives back the profile with ID.
	Login(ctx context.Context, email, password string) (*entity.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*entity.Profile, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type CreateIdentityRequest struct {
	// Completion fills the "I am a person who ..." blank.
	Completion string `validate:"required"`
}

// IdentityScore is one identity with its derived weekly metrics.
type IdentityScore struct {
	Identity    *entity.Identity       `json:"identity"`
	VotesWeek   int                    `json:"votes_this_week"`
	TrendDelta  *int                   `json:"trend_delta,omitempty"`
	MomentumPct int                    `json:"momentum_pct"`
	Reinforcing []*entity.Habit        `json:"reinforcing"`
	Total       int                    `json:"reinforcing_total"`
	Undermining []*entity.HabitToBreak `json:"undermining"`
}

type SaveBlockerRequest struct {
	Name        string `validate:"required,min=1,max=200"`
	DesignBreak *design.Break
}

type IdentitiesServiceI interface {
	CreateIdentity(ctx context.Context, uid uuid.UUID, req *CreateIdentityRequest) (*entity.Identity, error)
	GetIdentities(ctx context.Context, uid uuid.UUID) ([]*entity.Identity, error)
	// GetScoreboard returns every identity with votes, trend and momentum
	// plus its linked habits and habit to break.
	GetScoreboard(ctx context.Context, uid uuid.UUID) ([]*IdentityScore, error)
	UpdateStatement(ctx context.Context, identityID, uid uuid.UUID, completion string) (*entity.Identity, error)
	DeleteIdentity(ctx context.Context, identityID, uid uuid.UUID) error
	// SaveBlocker upserts the single habit to break attached to an identity.
	SaveBlocker(ctx context.Context, identityID, uid uuid.UUID, req *SaveBlockerRequest) (*entity.HabitToBreak, error)
	DeleteBlocker(ctx context.Context, identityID, uid uuid.UUID) error
}

type CreateHabitRequest struct {
	Name              string `validate:"required,min=1,max=200"`
	IdentityID        *uuid.UUID
	Frequency         entity.Frequency `validate:"omitempty,habit_frequency"`
	DesignBuild       *design.Build
	AnchorScorecardID *uuid.UUID
	AnchorHabitID     *uuid.UUID
}

// UpdateHabitRequest carries only the logical groups the caller wants
// changed; nil groups stay untouched.
type UpdateHabitRequest struct {
	Details *HabitDetails
	Design  *design.Build
	Anchor  *HabitAnchor
}

type HabitDetails struct {
	Name       string `validate:"required,min=1,max=200"`
	IdentityID *uuid.UUID
}

type HabitAnchor struct {
	ScorecardID *uuid.UUID
	HabitID     *uuid.UUID
}

type HabitsServiceI interface {
	CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.Habit, error)
	GetActiveHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	GetArchivedHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	GetHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.Habit, error)
	UpdateHabit(ctx context.Context, habitID, uid uuid.UUID, req *UpdateHabitRequest) (*entity.Habit, error)
	ArchiveHabit(ctx context.Context, habitID, uid uuid.UUID) error
	RestoreHabit(ctx context.Context, habitID, uid uuid.UUID) error
	// CompleteHabit casts today's vote: sets last_completed_date and
	// extends or restarts the streak. At most one vote per day.
	CompleteHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.Habit, error)
	// ResetHabit shrinks the habit to a new two-minute version and zeroes
	// the streak.
	ResetHabit(ctx context.Context, habitID, uid uuid.UUID, twoMinuteVersion string) (*entity.Habit, error)
	DeleteHabit(ctx context.Context, habitID, uid uuid.UUID) error
}

type CreateEntryRequest struct {
	HabitName  string           `validate:"required,min=1,max=200"`
	Rating     entity.Rating    `validate:"required,habit_rating"`
	TimeOfDay  entity.TimeOfDay `validate:"required,time_of_day"`
	IdentityID *uuid.UUID
}

type UpdateEntryRequest struct {
	HabitName  string           `validate:"required,min=1,max=200"`
	Rating     entity.Rating    `validate:"required,habit_rating"`
	TimeOfDay  entity.TimeOfDay `validate:"required,time_of_day"`
	IdentityID *uuid.UUID
}

type ReorderEntryRequest struct {
	TimeOfDay entity.TimeOfDay `validate:"required,time_of_day"`
	Position  int              `validate:"min=0"`
}

// Scorecard is the full audit view: entries plus every derived block.
type Scorecard struct {
	Entries    []*entity.ScorecardEntry `json:"entries"`
	Summary    Summary                  `json:"summary"`
	Breakdown  []BucketStats            `json:"breakdown"`
	WorstTime  *entity.TimeOfDay        `json:"worst_time,omitempty"`
	TakeAction *ActionCallout           `json:"take_action,omitempty"`
}

type ScorecardServiceI interface {
	AddEntry(ctx context.Context, uid uuid.UUID, req *CreateEntryRequest) (*entity.ScorecardEntry, error)
	GetScorecard(ctx context.Context, uid uuid.UUID) (*Scorecard, error)
	UpdateEntry(ctx context.Context, entryID, uid uuid.UUID, req *UpdateEntryRequest) (*entity.ScorecardEntry, error)
	UpdateRating(ctx context.Context, entryID, uid uuid.UUID, rating entity.Rating) (*entity.ScorecardEntry, error)
	ReorderEntry(ctx context.Context, entryID, uid uuid.UUID, req *ReorderEntryRequest) error
	DeleteEntry(ctx context.Context, entryID, uid uuid.UUID) error
}

type RateHabitRequest struct {
	Rating   entity.Rating `validate:"required,review_rating"`
	Friction *string       `validate:"omitempty,review_friction"`
}

// ReviewWeek is the wizard state for the current week.
type ReviewWeek struct {
	WeekStart string                 `json:"week_start"`
	Habits    []*entity.Habit        `json:"habits"`
	Ratings   []*entity.WeeklyRating `json:"ratings"`
	Step      Step                   `json:"step"`
}

type ReviewServiceI interface {
	GetWeek(ctx context.Context, uid uuid.UUID) (*ReviewWeek, error)
	// RateHabit upserts this week's rating for one habit. A friction, when
	// supplied, must come from the closed set.
	RateHabit(ctx context.Context, habitID, uid uuid.UUID, req *RateHabitRequest) error
	// ApplyAdvice executes the suggested fix for a struggling habit and
	// stamps the rating row.
	ApplyAdvice(ctx context.Context, habitID, uid uuid.UUID) (string, error)
}
