package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/pkg/cleanup"
	"github.com/limbo/atomic/pkg/design"
	"github.com/limbo/atomic/pkg/entity"
)

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitsRepository{
		conn: pool,
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

const habitColumns = `id, user_id, identity_id, name, two_minute_version, implementation_intention,
	stack_anchor_scorecard_id, stack_anchor_habit_id, temptation_bundle, design_build,
	frequency, is_active, sort_order, current_streak, last_completed_date, archived_at, created_at, updated_at`

func scanHabit(row pgx.Row) (*entity.Habit, error) {
	var (
		h            entity.Habit
		intentionRaw []byte
		designRaw    []byte
		anchorScore  *uuid.UUID
		anchorHabit  *uuid.UUID
		lastDone     *time.Time
	)
	err := row.Scan(&h.ID, &h.UserID, &h.IdentityID, &h.Name, &h.TwoMinuteVersion, &intentionRaw,
		&anchorScore, &anchorHabit, &h.TemptationBundle, &designRaw,
		&h.Frequency, &h.IsActive, &h.SortOrder, &h.CurrentStreak, &lastDone, &h.ArchivedAt,
		&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(intentionRaw) > 0 {
		var intention entity.Intention
		if err := unmarshalJSONB(intentionRaw, &intention); err != nil {
			return nil, err
		}
		h.Intention = &intention
	}
	if len(designRaw) > 0 {
		var build design.Build
		if err := unmarshalJSONB(designRaw, &build); err != nil {
			return nil, err
		}
		h.DesignBuild = &build
	}
	h.Anchor = entity.NewAnchor(anchorScore, anchorHabit)
	if lastDone != nil {
		d := lastDone.Format(dateLayout)
		h.LastCompletedDate = &d
	}
	return &h, nil
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	intentionRaw, err := intentionJSONB(habit.Intention)
	if err != nil {
		return uuid.UUID{}, err
	}
	designRaw, err := buildJSONB(habit.DesignBuild)
	if err != nil {
		return uuid.UUID{}, err
	}
	anchorScore, anchorHabit := habit.Anchor.Columns()
	var id uuid.UUID
	row := hr.conn.QueryRow(ctx,
		`INSERT INTO habits (user_id, identity_id, name, two_minute_version, implementation_intention,
			stack_anchor_scorecard_id, stack_anchor_habit_id, temptation_bundle, design_build, frequency, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id;`,
		habit.UserID, habit.IdentityID, habit.Name, habit.TwoMinuteVersion, intentionRaw,
		anchorScore, anchorHabit, habit.TemptationBundle, designRaw, habit.Frequency, habit.SortOrder,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating habit db error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	row := hr.conn.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1;`, id)
	habit, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return habit, nil
}

func (hr *HabitsRepository) GetActiveByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	return hr.list(ctx,
		`SELECT `+habitColumns+` FROM habits
		WHERE user_id = $1 AND archived_at IS NULL ORDER BY sort_order;`, uid)
}

func (hr *HabitsRepository) GetArchivedByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	return hr.list(ctx,
		`SELECT `+habitColumns+` FROM habits
		WHERE user_id = $1 AND archived_at IS NOT NULL ORDER BY updated_at DESC;`, uid)
}

func (hr *HabitsRepository) list(ctx context.Context, query string, uid uuid.UUID) ([]*entity.Habit, error) {
	habits := make([]*entity.Habit, 0)
	rows, err := hr.conn.Query(ctx, query, uid)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, errors.New("unmarshalling habit error: " + err.Error())
		}
		habits = append(habits, h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) CountByUserID(ctx context.Context, uid uuid.UUID) (int, error) {
	var count int
	row := hr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM habits WHERE user_id = $1;`, uid)
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting habits error: " + err.Error())
	}
	return count, nil
}

func (hr *HabitsRepository) UpdateDetails(ctx context.Context, id uuid.UUID, name string, identityID *uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx,
		`UPDATE habits SET name = $1, identity_id = $2, updated_at = NOW() WHERE id = $3;`,
		name, identityID, id,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return errorvalues.ErrIdentityNotFound
		}
		return errors.New("error updating habit details: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) UpdateDesign(ctx context.Context, id uuid.UUID, build *design.Build, twoMinute, temptation string, intention *entity.Intention) error {
	designRaw, err := buildJSONB(build)
	if err != nil {
		return err
	}
	intentionRaw, err := intentionJSONB(intention)
	if err != nil {
		return err
	}
	ct, err := hr.conn.Exec(ctx,
		`UPDATE habits SET design_build = $1, two_minute_version = $2, temptation_bundle = $3,
			implementation_intention = $4, updated_at = NOW() WHERE id = $5;`,
		designRaw, twoMinute, temptation, intentionRaw, id,
	)
	if err != nil {
		return errors.New("error updating habit design: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) UpdateAnchor(ctx context.Context, id uuid.UUID, anchor entity.Anchor) error {
	anchorScore, anchorHabit := anchor.Columns()
	ct, err := hr.conn.Exec(ctx,
		`UPDATE habits SET stack_anchor_scorecard_id = $1, stack_anchor_habit_id = $2, updated_at = NOW() WHERE id = $3;`,
		anchorScore, anchorHabit, id,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return errorvalues.ErrAnchorNotFound
		}
		return errors.New("error updating habit anchor: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Archive(ctx context.Context, id uuid.UUID, at time.Time) error {
	ct, err := hr.conn.Exec(ctx,
		`UPDATE habits SET archived_at = $1, is_active = FALSE, updated_at = NOW() WHERE id = $2;`, at, id)
	if err != nil {
		return errors.New("error archiving habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Restore(ctx context.Context, id uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx,
		`UPDATE habits SET archived_at = NULL, is_active = TRUE, current_streak = 0, updated_at = NOW() WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error restoring habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) MarkCompleted(ctx context.Context, id uuid.UUID, date string, streak int) error {
	ct, err := hr.conn.Exec(ctx,
		`UPDATE habits SET last_completed_date = $1, current_streak = $2, updated_at = NOW() WHERE id = $3;`,
		date, streak, id,
	)
	if err != nil {
		return errors.New("error marking habit completed: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Shrink(ctx context.Context, id uuid.UUID, twoMinute string) error {
	ct, err := hr.conn.Exec(ctx,
		`UPDATE habits SET two_minute_version = $1, current_streak = 0, updated_at = NOW() WHERE id = $2;`,
		twoMinute, id,
	)
	if err != nil {
		return errors.New("error shrinking habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx, `DELETE FROM habits WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func intentionJSONB(intention *entity.Intention) ([]byte, error) {
	if intention == nil {
		return nil, nil
	}
	return marshalJSONB(intention)
}

func buildJSONB(build *design.Build) ([]byte, error) {
	if build == nil {
		return nil, nil
	}
	return marshalJSONB(build)
}
