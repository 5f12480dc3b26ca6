package service_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/internal/service"
	"github.com/limbo/atomic/pkg/design"
	"github.com/limbo/atomic/pkg/entity"
)

type mockState int

const (
	stateSuccess = iota
	stateDBError
	stateHabitNotFoundError
	stateUserNotFoundError
	stateWrongOwner
	stateArchived
	stateCompletedToday
	stateCompletedYesterday
)

// Variables for tests
var (
	userID    = uuid.New()
	habitID   = uuid.New()
	testHabit = entity.Habit{
		ID:        habitID,
		UserID:    userID,
		Name:      "Read one page",
		Frequency: entity.FrequencyDaily,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
)

func TestMain(m *testing.M) {
	service.InitValidator()
	os.Exit(m.Run())
}

type habitRepoMock struct {
	state mockState

	lastCompletedDate string
	lastStreak        int
	lastTwoMinute     string
}

func (hrmock *habitRepoMock) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	switch hrmock.state {
	case stateUserNotFoundError:
		return uuid.UUID{}, errorvalues.ErrOwnerNotFound
	case stateDBError:
		return uuid.UUID{}, errors.New("db error")
	default:
		return habitID, nil
	}
}

func (hrmock *habitRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	switch hrmock.state {
	case stateHabitNotFoundError:
		return nil, errorvalues.ErrHabitNotFound
	case stateDBError:
		return nil, errors.New("db error")
	case stateWrongOwner:
		h := testHabit
		h.UserID = uuid.New()
		return &h, nil
	case stateArchived:
		h := testHabit
		at := time.Now()
		h.ArchivedAt = &at
		h.IsActive = false
		return &h, nil
	case stateCompletedToday:
		h := testHabit
		today := time.Now().Format("2006-01-02")
		h.LastCompletedDate = &today
		h.CurrentStreak = 2
		return &h, nil
	case stateCompletedYesterday:
		h := testHabit
		yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		h.LastCompletedDate = &yesterday
		h.CurrentStreak = 2
		return &h, nil
	default:
		h := testHabit
		return &h, nil
	}
}

func (hrmock *habitRepoMock) GetActiveByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	switch hrmock.state {
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return []*entity.Habit{&testHabit}, nil
	}
}

func (hrmock *habitRepoMock) GetArchivedByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	switch hrmock.state {
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return []*entity.Habit{}, nil
	}
}

func (hrmock *habitRepoMock) CountByUserID(ctx context.Context, uid uuid.UUID) (int, error) {
	switch hrmock.state {
	case stateDBError:
		return 0, errors.New("db error")
	default:
		return 3, nil
	}
}

func (hrmock *habitRepoMock) UpdateDetails(ctx context.Context, id uuid.UUID, name string, identityID *uuid.UUID) error {
	return hrmock.execResult()
}

func (hrmock *habitRepoMock) UpdateDesign(ctx context.Context, id uuid.UUID, build *design.Build, twoMinute, temptation string, intention *entity.Intention) error {
	return hrmock.execResult()
}

func (hrmock *habitRepoMock) UpdateAnchor(ctx context.Context, id uuid.UUID, anchor entity.Anchor) error {
	return hrmock.execResult()
}

func (hrmock *habitRepoMock) Archive(ctx context.Context, id uuid.UUID, at time.Time) error {
	return hrmock.execResult()
}

func (hrmock *habitRepoMock) Restore(ctx context.Context, id uuid.UUID) error {
	return hrmock.execResult()
}

func (hrmock *habitRepoMock) MarkCompleted(ctx context.Context, id uuid.UUID, date string, streak int) error {
	if err := hrmock.execResult(); err != nil {
		return err
	}
	hrmock.lastCompletedDate = date
	hrmock.lastStreak = streak
	return nil
}

func (hrmock *habitRepoMock) Shrink(ctx context.Context, id uuid.UUID, twoMinute string) error {
	if err := hrmock.execResult(); err != nil {
		return err
	}
	hrmock.lastTwoMinute = twoMinute
	return nil
}

func (hrmock *habitRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return hrmock.execResult()
}

func (hrmock *habitRepoMock) execResult() error {
	switch hrmock.state {
	case stateDBError:
		return errors.New("db error")
	case stateHabitNotFoundError:
		return errorvalues.ErrHabitNotFound
	default:
		return nil
	}
}

func TestCreateHabit(t *testing.T) {
	mock := &habitRepoMock{}
	habitsService := service.NewHabitsService(mock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.state = stateSuccess
		habit, err := habitsService.CreateHabit(ctx, userID, &service.CreateHabitRequest{
			Name: "Read one page",
		})
		assert.NoError(t, err)
		assert.Equal(t, testHabit.Name, habit.Name)
	})
	t.Run("empty name rejected", func(t *testing.T) {
		mock.state = stateSuccess
		_, err := habitsService.CreateHabit(ctx, userID, &service.CreateHabitRequest{})
		assert.Error(t, err)
	})
	t.Run("unknown user", func(t *testing.T) {
		mock.state = stateUserNotFoundError
		_, err := habitsService.CreateHabit(ctx, userID, &service.CreateHabitRequest{
			Name: "Read one page",
		})
		assert.ErrorIs(t, err, errorvalues.ErrOwnerNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.state = stateDBError
		_, err := habitsService.CreateHabit(ctx, userID, &service.CreateHabitRequest{
			Name: "Read one page",
		})
		assert.Error(t, err)
	})
}

func TestGetHabit(t *testing.T) {
	mock := &habitRepoMock{}
	habitsService := service.NewHabitsService(mock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.state = stateSuccess
		habit, err := habitsService.GetHabit(ctx, habitID, userID)
		assert.NoError(t, err)
		assert.Equal(t, testHabit.ID, habit.ID)
	})
	t.Run("not found", func(t *testing.T) {
		mock.state = stateHabitNotFoundError
		_, err := habitsService.GetHabit(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("wrong owner", func(t *testing.T) {
		mock.state = stateWrongOwner
		_, err := habitsService.GetHabit(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
}

func TestCompleteHabit(t *testing.T) {
	mock := &habitRepoMock{}
	habitsService := service.NewHabitsService(mock)
	ctx := context.Background()
	today := time.Now().Format("2006-01-02")
	t.Run("first completion starts streak", func(t *testing.T) {
		mock.state = stateSuccess
		habit, err := habitsService.CompleteHabit(ctx, habitID, userID)
		assert.NoError(t, err)
		assert.Equal(t, today, *habit.LastCompletedDate)
		assert.Equal(t, 1, habit.CurrentStreak)
		assert.Equal(t, today, mock.lastCompletedDate)
	})
	t.Run("consecutive day extends streak", func(t *testing.T) {
		mock.state = stateCompletedYesterday
		habit, err := habitsService.CompleteHabit(ctx, habitID, userID)
		assert.NoError(t, err)
		assert.Equal(t, 3, habit.CurrentStreak)
		assert.Equal(t, 3, mock.lastStreak)
	})
	t.Run("second completion same day rejected", func(t *testing.T) {
		mock.state = stateCompletedToday
		_, err := habitsService.CompleteHabit(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrAlreadyCompleted)
	})
	t.Run("archived habit rejected", func(t *testing.T) {
		mock.state = stateArchived
		_, err := habitsService.CompleteHabit(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrHabitArchived)
	})
	t.Run("wrong owner", func(t *testing.T) {
		mock.state = stateWrongOwner
		_, err := habitsService.CompleteHabit(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
}

func TestNextStreak(t *testing.T) {
	t.Run("no history starts at one", func(t *testing.T) {
		assert.Equal(t, 1, service.NextStreak(&entity.Habit{}, "2025-06-11"))
	})
	t.Run("consecutive day increments", func(t *testing.T) {
		last := "2025-06-10"
		h := entity.Habit{LastCompletedDate: &last, CurrentStreak: 4}
		assert.Equal(t, 5, service.NextStreak(&h, "2025-06-11"))
	})
	t.Run("gap restarts", func(t *testing.T) {
		last := "2025-06-01"
		h := entity.Habit{LastCompletedDate: &last, CurrentStreak: 9}
		assert.Equal(t, 1, service.NextStreak(&h, "2025-06-11"))
	})
	t.Run("month boundary", func(t *testing.T) {
		last := "2025-05-31"
		h := entity.Habit{LastCompletedDate: &last, CurrentStreak: 2}
		assert.Equal(t, 3, service.NextStreak(&h, "2025-06-01"))
	})
}

func TestResetHabit(t *testing.T) {
	mock := &habitRepoMock{}
	habitsService := service.NewHabitsService(mock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.state = stateSuccess
		habit, err := habitsService.ResetHabit(ctx, habitID, userID, "  Open the book  ")
		assert.NoError(t, err)
		assert.Equal(t, "Open the book", habit.TwoMinuteVersion)
		assert.Equal(t, 0, habit.CurrentStreak)
		assert.Equal(t, "Open the book", mock.lastTwoMinute)
	})
	t.Run("blank version rejected", func(t *testing.T) {
		mock.state = stateSuccess
		_, err := habitsService.ResetHabit(ctx, habitID, userID, "   ")
		assert.ErrorIs(t, err, errorvalues.ErrEmptyName)
	})
	t.Run("wrong owner", func(t *testing.T) {
		mock.state = stateWrongOwner
		_, err := habitsService.ResetHabit(ctx, habitID, userID, "Open the book")
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
}

func TestArchiveRestoreDelete(t *testing.T) {
	mock := &habitRepoMock{}
	habitsService := service.NewHabitsService(mock)
	ctx := context.Background()
	t.Run("archive", func(t *testing.T) {
		mock.state = stateSuccess
		assert.NoError(t, habitsService.ArchiveHabit(ctx, habitID, userID))
	})
	t.Run("restore", func(t *testing.T) {
		mock.state = stateArchived
		assert.NoError(t, habitsService.RestoreHabit(ctx, habitID, userID))
	})
	t.Run("delete wrong owner", func(t *testing.T) {
		mock.state = stateWrongOwner
		assert.ErrorIs(t, habitsService.DeleteHabit(ctx, habitID, userID), errorvalues.ErrWrongOwner)
	})
	t.Run("delete not found", func(t *testing.T) {
		mock.state = stateHabitNotFoundError
		assert.ErrorIs(t, habitsService.DeleteHabit(ctx, habitID, userID), errorvalues.ErrHabitNotFound)
	})
}
