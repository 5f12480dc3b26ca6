package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/internal/repository"
	"github.com/limbo/atomic/pkg/design"
	"github.com/limbo/atomic/pkg/entity"
)

const dateLayout = "2006-01-02"

type HabitsService struct {
	repo repository.HabitsRepositoryI
	now  func() time.Time
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI) *HabitsService {
	if habitsRepo == nil {
		log.Fatal("provided nil habitsRepo")
	}
	return &HabitsService{
		repo: habitsRepo,
		now:  time.Now,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.Habit, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	frequency := req.Frequency
	if frequency == "" {
		frequency = entity.FrequencyDaily
	}
	count, err := hs.repo.CountByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	build := design.TrimBuild(req.DesignBuild)
	h := entity.Habit{
		UserID:      uid,
		IdentityID:  req.IdentityID,
		Name:        strings.TrimSpace(req.Name),
		DesignBuild: build,
		Anchor:      entity.NewAnchor(req.AnchorScorecardID, req.AnchorHabitID),
		Frequency:   frequency,
		SortOrder:   count,
	}
	applyBuildShortcuts(&h, build)
	id, err := hs.repo.Create(ctx, &h)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

// applyBuildShortcuts copies the template answers that double as flat habit
// fields, the way the create flow pre-fills them.
func applyBuildShortcuts(h *entity.Habit, build *design.Build) {
	if build == nil {
		return
	}
	if build.Easy != nil {
		h.TwoMinuteVersion = build.Easy.TwoMinuteRule
	}
	if build.Attractive != nil {
		h.TemptationBundle = build.Attractive.TemptationBundling
	}
	if build.Obvious != nil && build.Obvious.ImplementationIntention != "" {
		h.Intention = &entity.Intention{Behavior: build.Obvious.ImplementationIntention}
	}
}

func (hs *HabitsService) GetActiveHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	habits, err := hs.repo.GetActiveByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) GetArchivedHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	habits, err := hs.repo.GetArchivedByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.Habit, error) {
	return hs.ownedHabit(ctx, habitID, uid)
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, uid uuid.UUID, req *UpdateHabitRequest) (*entity.Habit, error) {
	habit, err := hs.ownedHabit(ctx, habitID, uid)
	if err != nil {
		return nil, err
	}
	if req.Details != nil {
		err := validate.Struct(*req.Details)
		if err != nil {
			if validationError, ok := err.(validator.ValidationErrors); ok {
				err = errors.New("validation error: ")
				for _, fieldErr := range validationError {
					err = errors.Join(err, fieldErr)
				}
				return nil, err
			}
			return nil, errors.New("validation unexpected error: " + err.Error())
		}
		err = hs.repo.UpdateDetails(ctx, habit.ID, strings.TrimSpace(req.Details.Name), req.Details.IdentityID)
		if err != nil {
			if errors.Is(err, errorvalues.ErrIdentityNotFound) || errors.Is(err, errorvalues.ErrHabitNotFound) {
				return nil, err
			}
			return nil, errors.New("habits repository error: " + err.Error())
		}
	}
	if req.Design != nil {
		build := design.TrimBuild(req.Design)
		shadow := entity.Habit{}
		applyBuildShortcuts(&shadow, build)
		err = hs.repo.UpdateDesign(ctx, habit.ID, build, shadow.TwoMinuteVersion, shadow.TemptationBundle, shadow.Intention)
		if err != nil {
			if errors.Is(err, errorvalues.ErrHabitNotFound) {
				return nil, err
			}
			return nil, errors.New("habits repository error: " + err.Error())
		}
	}
	if req.Anchor != nil {
		anchor := entity.NewAnchor(req.Anchor.ScorecardID, req.Anchor.HabitID)
		err = hs.repo.UpdateAnchor(ctx, habit.ID, anchor)
		if err != nil {
			if errors.Is(err, errorvalues.ErrAnchorNotFound) || errors.Is(err, errorvalues.ErrHabitNotFound) {
				return nil, err
			}
			return nil, errors.New("habits repository error: " + err.Error())
		}
	}
	habit, err = hs.repo.GetByID(ctx, habitID)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) ArchiveHabit(ctx context.Context, habitID, uid uuid.UUID) error {
	if _, err := hs.ownedHabit(ctx, habitID, uid); err != nil {
		return err
	}
	err := hs.repo.Archive(ctx, habitID, hs.now())
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) RestoreHabit(ctx context.Context, habitID, uid uuid.UUID) error {
	if _, err := hs.ownedHabit(ctx, habitID, uid); err != nil {
		return err
	}
	err := hs.repo.Restore(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

// NextStreak computes the streak after completing on date. Consecutive-day
// completions extend the streak, anything else restarts at 1. Completing
// twice on the same date is rejected upstream.
func NextStreak(habit *entity.Habit, date string) int {
	if habit.LastCompletedDate == nil {
		return 1
	}
	last, err := time.Parse(dateLayout, *habit.LastCompletedDate)
	if err != nil {
		return 1
	}
	if last.AddDate(0, 0, 1).Format(dateLayout) == date {
		return habit.CurrentStreak + 1
	}
	return 1
}

func (hs *HabitsService) CompleteHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.Habit, error) {
	habit, err := hs.ownedHabit(ctx, habitID, uid)
	if err != nil {
		return nil, err
	}
	if habit.ArchivedAt != nil {
		return nil, errorvalues.ErrHabitArchived
	}
	today := hs.now().Format(dateLayout)
	if habit.LastCompletedDate != nil && *habit.LastCompletedDate == today {
		return nil, errorvalues.ErrAlreadyCompleted
	}
	streak := NextStreak(habit, today)
	err = hs.repo.MarkCompleted(ctx, habitID, today, streak)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit.LastCompletedDate = &today
	habit.CurrentStreak = streak
	return habit, nil
}

func (hs *HabitsService) ResetHabit(ctx context.Context, habitID, uid uuid.UUID, twoMinuteVersion string) (*entity.Habit, error) {
	habit, err := hs.ownedHabit(ctx, habitID, uid)
	if err != nil {
		return nil, err
	}
	twoMinuteVersion = strings.TrimSpace(twoMinuteVersion)
	if twoMinuteVersion == "" {
		return nil, errorvalues.ErrEmptyName
	}
	err = hs.repo.Shrink(ctx, habitID, twoMinuteVersion)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit.TwoMinuteVersion = twoMinuteVersion
	habit.CurrentStreak = 0
	return habit, nil
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, habitID, uid uuid.UUID) error {
	if _, err := hs.ownedHabit(ctx, habitID, uid); err != nil {
		return err
	}
	err := hs.repo.Delete(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) ownedHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.Habit, error) {
	habit, err := hs.repo.GetByID(ctx, habitID)
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
