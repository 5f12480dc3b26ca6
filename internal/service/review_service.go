package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/internal/repository"
	"github.com/limbo/atomic/pkg/entity"
	"github.com/limbo/atomic/pkg/weekmath"
)

type ReviewService struct {
	repo   repository.ReviewRepositoryI
	habits repository.HabitsRepositoryI
	now    func() time.Time
}

func NewReviewService(reviewRepo repository.ReviewRepositoryI, habitsRepo repository.HabitsRepositoryI) *ReviewService {
	if reviewRepo == nil || habitsRepo == nil {
		log.Fatal("provided nil repo to reviewService")
	}
	return &ReviewService{
		repo:   reviewRepo,
		habits: habitsRepo,
		now:    time.Now,
	}
}

func (rs *ReviewService) GetWeek(ctx context.Context, uid uuid.UUID) (*ReviewWeek, error) {
	weekStart := weekmath.WeekStart(rs.now())
	habits, err := rs.habits.GetActiveByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	ratings, err := rs.repo.GetWeek(ctx, uid, weekStart)
	if err != nil {
		return nil, errors.New("review repository error: " + err.Error())
	}
	return &ReviewWeek{
		WeekStart: weekStart,
		Habits:    habits,
		Ratings:   ratings,
		Step:      CurrentStep(habits, ratings),
	}, nil
}

func (rs *ReviewService) RateHabit(ctx context.Context, habitID, uid uuid.UUID, req *RateHabitRequest) error {
	if err := validateRequest(*req); err != nil {
		return err
	}
	if _, err := rs.ownedHabit(ctx, habitID, uid); err != nil {
		return err
	}
	friction := req.Friction
	if req.Rating != entity.RatingNegative {
		// frictions only make sense for struggled habits
		friction = nil
	}
	err := rs.repo.Upsert(ctx, &entity.WeeklyRating{
		UserID:    uid,
		HabitID:   habitID,
		WeekStart: weekmath.WeekStart(rs.now()),
		Rating:    req.Rating,
		Friction:  friction,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("review repository error: " + err.Error())
	}
	return nil
}

func (rs *ReviewService) ApplyAdvice(ctx context.Context, habitID, uid uuid.UUID) (string, error) {
	if _, err := rs.ownedHabit(ctx, habitID, uid); err != nil {
		return "", err
	}
	now := rs.now()
	weekStart := weekmath.WeekStart(now)
	ratings, err := rs.repo.GetWeek(ctx, uid, weekStart)
	if err != nil {
		return "", errors.New("review repository error: " + err.Error())
	}
	var rating *entity.WeeklyRating
	for _, r := range ratings {
		if r.HabitID == habitID {
			rating = r
			break
		}
	}
	if rating == nil {
		return "", errorvalues.ErrRatingNotFound
	}
	if rating.Rating != entity.RatingNegative || rating.Friction == nil {
		return "", errorvalues.ErrFrictionRequired
	}
	advice := AdviceFor(*rating.Friction)
	err = rs.repo.StampAdviceApplied(ctx, uid, habitID, weekStart, now)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRatingNotFound) {
			return "", err
		}
		return "", errors.New("review repository error: " + err.Error())
	}
	return advice, nil
}

func (rs *ReviewService) ownedHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.Habit, error) {
	habit, err := rs.habits.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}
