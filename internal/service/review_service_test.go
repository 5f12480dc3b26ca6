package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/internal/service"
	"github.com/limbo/atomic/pkg/entity"
	"github.com/limbo/atomic/pkg/weekmath"
)

type reviewRepoMock struct {
	state mockState

	ratings map[uuid.UUID]*entity.WeeklyRating
}

func newReviewRepoMock() *reviewRepoMock {
	return &reviewRepoMock{ratings: map[uuid.UUID]*entity.WeeklyRating{}}
}

func (rrmock *reviewRepoMock) Upsert(ctx context.Context, rating *entity.WeeklyRating) error {
	switch rrmock.state {
	case stateDBError:
		return errors.New("db error")
	case stateHabitNotFoundError:
		return errorvalues.ErrHabitNotFound
	default:
		rrmock.ratings[rating.HabitID] = rating
		return nil
	}
}

func (rrmock *reviewRepoMock) GetWeek(ctx context.Context, uid uuid.UUID, weekStart string) ([]*entity.WeeklyRating, error) {
	switch rrmock.state {
	case stateDBError:
		return nil, errors.New("db error")
	default:
		out := make([]*entity.WeeklyRating, 0, len(rrmock.ratings))
		for _, r := range rrmock.ratings {
			if r.WeekStart == weekStart {
				out = append(out, r)
			}
		}
		return out, nil
	}
}

func (rrmock *reviewRepoMock) StampAdviceApplied(ctx context.Context, uid, habitID uuid.UUID, weekStart string, at time.Time) error {
	switch rrmock.state {
	case stateDBError:
		return errors.New("db error")
	default:
		r, ok := rrmock.ratings[habitID]
		if !ok {
			return errorvalues.ErrRatingNotFound
		}
		r.AdviceAppliedAt = &at
		return nil
	}
}

func TestRateHabit(t *testing.T) {
	ctx := context.Background()
	friction := "Too busy"
	t.Run("kept up", func(t *testing.T) {
		reviewRepo := newReviewRepoMock()
		reviewService := service.NewReviewService(reviewRepo, &habitRepoMock{})
		err := reviewService.RateHabit(ctx, habitID, userID, &service.RateHabitRequest{
			Rating: entity.RatingNeutral,
		})
		assert.NoError(t, err)
		assert.Equal(t, weekmath.WeekStart(time.Now()), reviewRepo.ratings[habitID].WeekStart)
	})
	t.Run("struggled persists before friction is picked", func(t *testing.T) {
		reviewRepo := newReviewRepoMock()
		reviewService := service.NewReviewService(reviewRepo, &habitRepoMock{})
		err := reviewService.RateHabit(ctx, habitID, userID, &service.RateHabitRequest{
			Rating: entity.RatingNegative,
		})
		assert.NoError(t, err)
		assert.Equal(t, entity.RatingNegative, reviewRepo.ratings[habitID].Rating)
		assert.Nil(t, reviewRepo.ratings[habitID].Friction)
		week, err := reviewService.GetWeek(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, service.StepFriction, week.Step)
	})
	t.Run("unknown friction rejected", func(t *testing.T) {
		bogus := "vibes"
		reviewService := service.NewReviewService(newReviewRepoMock(), &habitRepoMock{})
		err := reviewService.RateHabit(ctx, habitID, userID, &service.RateHabitRequest{
			Rating:   entity.RatingNegative,
			Friction: &bogus,
		})
		assert.Error(t, err)
	})
	t.Run("positive rating rejected", func(t *testing.T) {
		reviewService := service.NewReviewService(newReviewRepoMock(), &habitRepoMock{})
		err := reviewService.RateHabit(ctx, habitID, userID, &service.RateHabitRequest{
			Rating: entity.RatingPositive,
		})
		assert.Error(t, err)
	})
	t.Run("friction dropped for kept-up habits", func(t *testing.T) {
		reviewRepo := newReviewRepoMock()
		reviewService := service.NewReviewService(reviewRepo, &habitRepoMock{})
		err := reviewService.RateHabit(ctx, habitID, userID, &service.RateHabitRequest{
			Rating:   entity.RatingNeutral,
			Friction: &friction,
		})
		assert.NoError(t, err)
		assert.Nil(t, reviewRepo.ratings[habitID].Friction)
	})
	t.Run("wrong owner", func(t *testing.T) {
		reviewService := service.NewReviewService(newReviewRepoMock(), &habitRepoMock{state: stateWrongOwner})
		err := reviewService.RateHabit(ctx, habitID, userID, &service.RateHabitRequest{
			Rating: entity.RatingNeutral,
		})
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
}

func TestApplyAdvice(t *testing.T) {
	ctx := context.Background()
	friction := "Forgot"
	t.Run("stamps and returns advice", func(t *testing.T) {
		reviewRepo := newReviewRepoMock()
		reviewService := service.NewReviewService(reviewRepo, &habitRepoMock{})
		err := reviewService.RateHabit(ctx, habitID, userID, &service.RateHabitRequest{
			Rating:   entity.RatingNegative,
			Friction: &friction,
		})
		assert.NoError(t, err)
		advice, err := reviewService.ApplyAdvice(ctx, habitID, userID)
		assert.NoError(t, err)
		assert.Equal(t, "Add cue", advice)
		assert.NotNil(t, reviewRepo.ratings[habitID].AdviceAppliedAt)
	})
	t.Run("no rating this week", func(t *testing.T) {
		reviewService := service.NewReviewService(newReviewRepoMock(), &habitRepoMock{})
		_, err := reviewService.ApplyAdvice(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrRatingNotFound)
	})
	t.Run("kept-up habit has no advice", func(t *testing.T) {
		reviewRepo := newReviewRepoMock()
		reviewService := service.NewReviewService(reviewRepo, &habitRepoMock{})
		err := reviewService.RateHabit(ctx, habitID, userID, &service.RateHabitRequest{
			Rating: entity.RatingNeutral,
		})
		assert.NoError(t, err)
		_, err = reviewService.ApplyAdvice(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrFrictionRequired)
	})
}

func TestGetWeek(t *testing.T) {
	ctx := context.Background()
	t.Run("fresh week starts at rate", func(t *testing.T) {
		reviewService := service.NewReviewService(newReviewRepoMock(), &habitRepoMock{})
		week, err := reviewService.GetWeek(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, weekmath.WeekStart(time.Now()), week.WeekStart)
		assert.Equal(t, service.StepRate, week.Step)
		assert.Equal(t, 1, len(week.Habits))
	})
	t.Run("rated week advances", func(t *testing.T) {
		reviewRepo := newReviewRepoMock()
		reviewService := service.NewReviewService(reviewRepo, &habitRepoMock{})
		err := reviewService.RateHabit(ctx, habitID, userID, &service.RateHabitRequest{
			Rating: entity.RatingNeutral,
		})
		assert.NoError(t, err)
		week, err := reviewService.GetWeek(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, service.StepApply, week.Step)
	})
}
