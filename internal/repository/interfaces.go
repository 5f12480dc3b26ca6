package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/atomic/pkg/design"
	"github.com/limbo/atomic/pkg/entity"
)

type ProfilesRepositoryI interface {
	// Creates new profile row
	Create(ctx context.Context, profile *entity.Profile) (uuid.UUID, error)
	// Looks up profile by email. Used for login
	FindByEmail(ctx context.Context, email string) (*entity.Profile, error)
	// Looks up profile by uid. Used by authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.Profile, error)
	// Updates display name only
	UpdateDisplayName(ctx context.Context, uid uuid.UUID, displayName string) error
	Delete(ctx context.Context, uid uuid.UUID) error
}

type IdentitiesRepositoryI interface {
	Create(ctx context.Context, identity *entity.Identity) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Identity, error)
	// Lists identities owned by uid, ordered by sort_order
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Identity, error)
	CountByUserID(ctx context.Context, uid uuid.UUID) (int, error)
	UpdateStatement(ctx context.Context, id uuid.UUID, statement string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type HabitsRepositoryI interface {
	Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Active habits ordered by sort_order; archived by updated_at desc
	GetActiveByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	GetArchivedByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	CountByUserID(ctx context.Context, uid uuid.UUID) (int, error)
	// Targeted updates per logical field group, never full-row replacement
	UpdateDetails(ctx context.Context, id uuid.UUID, name string, identityID *uuid.UUID) error
	UpdateDesign(ctx context.Context, id uuid.UUID, build *design.Build, twoMinute, temptation string, intention *entity.Intention) error
	UpdateAnchor(ctx context.Context, id uuid.UUID, anchor entity.Anchor) error
	Archive(ctx context.Context, id uuid.UUID, at time.Time) error
	Restore(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, date string, streak int) error
	// Reset flow: replace the 2-minute version and zero the streak
	Shrink(ctx context.Context, id uuid.UUID, twoMinute string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ScorecardRepositoryI interface {
	Create(ctx context.Context, entry *entity.ScorecardEntry) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ScorecardEntry, error)
	// Ordered by sort_order within insertion order of buckets
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.ScorecardEntry, error)
	CountByUserID(ctx context.Context, uid uuid.UUID) (int, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating entity.Rating) error
	Update(ctx context.Context, entry *entity.ScorecardEntry) error
	// Moves the entry to a bucket/position and renumbers every affected
	// bucket contiguously from 0, in one transaction
	Reorder(ctx context.Context, uid, id uuid.UUID, timeOfDay entity.TimeOfDay, position int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type BlockersRepositoryI interface {
	Create(ctx context.Context, blocker *entity.HabitToBreak) (uuid.UUID, error)
	GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*entity.HabitToBreak, error)
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.HabitToBreak, error)
	Update(ctx context.Context, blocker *entity.HabitToBreak) error
	DeleteByIdentityID(ctx context.Context, identityID uuid.UUID) error
}

type ReviewRepositoryI interface {
	// Upsert keyed (user_id, habit_id, week_start)
	Upsert(ctx context.Context, rating *entity.WeeklyRating) error
	GetWeek(ctx context.Context, uid uuid.UUID, weekStart string) ([]*entity.WeeklyRating, error)
	StampAdviceApplied(ctx context.Context, uid, habitID uuid.UUID, weekStart string, at time.Time) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
