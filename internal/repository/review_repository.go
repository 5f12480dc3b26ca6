package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/pkg/cleanup"
	"github.com/limbo/atomic/pkg/entity"
)

// ReviewRepository stores weekly review ratings keyed (user, habit, week_start).
type ReviewRepository struct {
	conn PgConnection
}

func NewReviewRepo(cfg DBConfig) *ReviewRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for reviewRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for reviewRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ReviewRepository{
		conn: pool,
	}
}

func NewReviewRepoWithConn(conn PgConnection) *ReviewRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for reviewRepo: " + err.Error())
	}
	return &ReviewRepository{
		conn: conn,
	}
}

// Upsert writes the rating for one habit and week. Re-rating the same habit
// in the same week overwrites the previous row and clears any stamped advice.
func (rr *ReviewRepository) Upsert(ctx context.Context, rating *entity.WeeklyRating) error {
	_, err := rr.conn.Exec(ctx,
		`INSERT INTO weekly_ratings (user_id, habit_id, week_start, rating, friction)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, habit_id, week_start)
		DO UPDATE SET rating = EXCLUDED.rating, friction = EXCLUDED.friction,
			advice_applied_at = NULL, updated_at = NOW();`,
		rating.UserID, rating.HabitID, rating.WeekStart, rating.Rating, rating.Friction,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrHabitNotFound
			}
		}
		return errors.New("upserting weekly rating db error: " + err.Error())
	}
	return nil
}

func (rr *ReviewRepository) GetWeek(ctx context.Context, uid uuid.UUID, weekStart string) ([]*entity.WeeklyRating, error) {
	ratings := make([]*entity.WeeklyRating, 0)
	rows, err := rr.conn.Query(ctx,
		`SELECT user_id, habit_id, week_start, rating, friction, advice_applied_at, created_at, updated_at
		FROM weekly_ratings WHERE user_id = $1 AND week_start = $2;`, uid, weekStart)
	if err != nil {
		return nil, errors.New("getting weekly ratings error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var (
			r     entity.WeeklyRating
			start time.Time
		)
		err = rows.Scan(&r.UserID, &r.HabitID, &start, &r.Rating, &r.Friction, &r.AdviceAppliedAt,
			&r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling weekly rating error: " + err.Error())
		}
		r.WeekStart = start.Format(dateLayout)
		ratings = append(ratings, &r)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return ratings, nil
}

func (rr *ReviewRepository) StampAdviceApplied(ctx context.Context, uid, habitID uuid.UUID, weekStart string, at time.Time) error {
	ct, err := rr.conn.Exec(ctx,
		`UPDATE weekly_ratings SET advice_applied_at = $1, updated_at = NOW()
		WHERE user_id = $2 AND habit_id = $3 AND week_start = $4;`,
		at, uid, habitID, weekStart,
	)
	if err != nil {
		return errors.New("error stamping advice applied: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrRatingNotFound
	}
	return nil
}
