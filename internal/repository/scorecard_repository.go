package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/pkg/cleanup"
	"github.com/limbo/atomic/pkg/entity"
)

type ScorecardRepository struct {
	conn PgConnection
}

func NewScorecardRepo(cfg DBConfig) *ScorecardRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for scorecardRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for scorecardRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ScorecardRepository{
		conn: pool,
	}
}

func NewScorecardRepoWithConn(conn PgConnection) *ScorecardRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for scorecardRepo: " + err.Error())
	}
	return &ScorecardRepository{
		conn: conn,
	}
}

func (sr *ScorecardRepository) Create(ctx context.Context, entry *entity.ScorecardEntry) (uuid.UUID, error) {
	var id uuid.UUID
	row := sr.conn.QueryRow(ctx,
		`INSERT INTO scorecard_entries (user_id, habit_name, rating, time_of_day, sort_order, identity_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		entry.UserID, entry.HabitName, entry.Rating, entry.TimeOfDay, entry.SortOrder, entry.IdentityID,
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
		return uuid.UUID{}, errors.New("creating scorecard entry db error: " + err.Error())
	}
	return id, nil
}

func (sr *ScorecardRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ScorecardEntry, error) {
	var e entity.ScorecardEntry
	e.ID = id
	row := sr.conn.QueryRow(ctx,
		`SELECT user_id, habit_name, rating, time_of_day, sort_order, identity_id, created_at, updated_at
		FROM scorecard_entries WHERE id = $1;`, id)
	if err := row.Scan(&e.UserID, &e.HabitName, &e.Rating, &e.TimeOfDay, &e.SortOrder, &e.IdentityID,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrEntryNotFound
		}
		return nil, errors.New("getting scorecard entry by id error: " + err.Error())
	}
	return &e, nil
}

func (sr *ScorecardRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.ScorecardEntry, error) {
	entries := make([]*entity.ScorecardEntry, 0)
	rows, err := sr.conn.Query(ctx,
		`SELECT id, user_id, habit_name, rating, time_of_day, sort_order, identity_id, created_at, updated_at
		FROM scorecard_entries WHERE user_id = $1 ORDER BY sort_order;`, uid)
	if err != nil {
		return nil, errors.New("getting scorecard entries by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		e := entity.ScorecardEntry{}
		err = rows.Scan(&e.ID, &e.UserID, &e.HabitName, &e.Rating, &e.TimeOfDay, &e.SortOrder, &e.IdentityID,
			&e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling scorecard entry error: " + err.Error())
		}
		entries = append(entries, &e)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return entries, nil
}

func (sr *ScorecardRepository) CountByUserID(ctx context.Context, uid uuid.UUID) (int, error) {
	var count int
	row := sr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM scorecard_entries WHERE user_id = $1;`, uid)
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting scorecard entries error: " + err.Error())
	}
	return count, nil
}

func (sr *ScorecardRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating entity.Rating) error {
	ct, err := sr.conn.Exec(ctx,
		`UPDATE scorecard_entries SET rating = $1, updated_at = NOW() WHERE id = $2;`, rating, id)
	if err != nil {
		return errors.New("error updating entry rating: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEntryNotFound
	}
	return nil
}

func (sr *ScorecardRepository) Update(ctx context.Context, entry *entity.ScorecardEntry) error {
	ct, err := sr.conn.Exec(ctx,
		`UPDATE scorecard_entries SET habit_name = $1, rating = $2, time_of_day = $3, identity_id = $4, updated_at = NOW()
		WHERE id = $5;`,
		entry.HabitName, entry.Rating, entry.TimeOfDay, entry.IdentityID, entry.ID,
	)
	if err != nil {
		return errors.New("error updating scorecard entry: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEntryNotFound
	}
	return nil
}

// Reorder moves the entry into timeOfDay at position and renumbers the
// source and destination buckets so each one holds sort_order 0..n-1 with
// no gaps. Runs in a single transaction.
func (sr *ScorecardRepository) Reorder(ctx context.Context, uid, id uuid.UUID, timeOfDay entity.TimeOfDay, position int) error {
	tx, err := sr.conn.Begin(ctx)
	if err != nil {
		return errors.New("starting reorder tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)

	var oldTime entity.TimeOfDay
	row := tx.QueryRow(ctx,
		`SELECT time_of_day FROM scorecard_entries WHERE id = $1 AND user_id = $2;`, id, uid)
	if err := row.Scan(&oldTime); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorvalues.ErrEntryNotFound
		}
		return errors.New("reorder lookup error: " + err.Error())
	}

	oldBucket, err := bucketIDs(ctx, tx, uid, oldTime)
	if err != nil {
		return err
	}
	newBucket := oldBucket
	if timeOfDay != oldTime {
		newBucket, err = bucketIDs(ctx, tx, uid, timeOfDay)
		if err != nil {
			return err
		}
	}

	oldBucket = removeID(oldBucket, id)
	if timeOfDay == oldTime {
		newBucket = oldBucket
	}
	if position < 0 {
		position = 0
	}
	if position > len(newBucket) {
		position = len(newBucket)
	}
	newBucket = append(newBucket[:position], append([]uuid.UUID{id}, newBucket[position:]...)...)

	if err := renumberBucket(ctx, tx, timeOfDay, newBucket); err != nil {
		return err
	}
	if timeOfDay != oldTime {
		if err := renumberBucket(ctx, tx, oldTime, oldBucket); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.New("committing reorder tx error: " + err.Error())
	}
	return nil
}

func bucketIDs(ctx context.Context, tx pgx.Tx, uid uuid.UUID, timeOfDay entity.TimeOfDay) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	rows, err := tx.Query(ctx,
		`SELECT id FROM scorecard_entries WHERE user_id = $1 AND time_of_day = $2 ORDER BY sort_order;`,
		uid, timeOfDay)
	if err != nil {
		return nil, errors.New("reading bucket error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, errors.New("scanning bucket id error: " + err.Error())
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return ids, nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func renumberBucket(ctx context.Context, tx pgx.Tx, timeOfDay entity.TimeOfDay, ids []uuid.UUID) error {
	for pos, id := range ids {
		_, err := tx.Exec(ctx,
			`UPDATE scorecard_entries SET time_of_day = $1, sort_order = $2, updated_at = NOW() WHERE id = $3;`,
			timeOfDay, pos, id)
		if err != nil {
			return errors.New("renumbering bucket error: " + err.Error())
		}
	}
	return nil
}

func (sr *ScorecardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := sr.conn.Exec(ctx, `DELETE FROM scorecard_entries WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting scorecard entry: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEntryNotFound
	}
	return nil
}
