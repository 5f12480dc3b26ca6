package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/internal/repository"
	"github.com/limbo/atomic/pkg/entity"
)

type ScorecardService struct {
	repo repository.ScorecardRepositoryI
}

func NewScorecardService(scorecardRepo repository.ScorecardRepositoryI) *ScorecardService {
	if scorecardRepo == nil {
		log.Fatal("provided nil scorecardRepo")
	}
	return &ScorecardService{
		repo: scorecardRepo,
	}
}

func (ss *ScorecardService) AddEntry(ctx context.Context, uid uuid.UUID, req *CreateEntryRequest) (*entity.ScorecardEntry, error) {
	if err := validateRequest(*req); err != nil {
		return nil, err
	}
	count, err := ss.repo.CountByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("scorecard repository error: " + err.Error())
	}
	id, err := ss.repo.Create(ctx, &entity.ScorecardEntry{
		UserID:     uid,
		HabitName:  strings.TrimSpace(req.HabitName),
		Rating:     req.Rating,
		TimeOfDay:  req.TimeOfDay,
		SortOrder:  count,
		IdentityID: req.IdentityID,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, err
		}
		return nil, errors.New("scorecard repository error: " + err.Error())
	}
	entry, err := ss.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("scorecard repository error: " + err.Error())
	}
	return entry, nil
}

func (ss *ScorecardService) GetScorecard(ctx context.Context, uid uuid.UUID) (*Scorecard, error) {
	entries, err := ss.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("scorecard repository error: " + err.Error())
	}
	breakdown := BucketBreakdown(entries)
	return &Scorecard{
		Entries:    entries,
		Summary:    Summarize(entries),
		Breakdown:  breakdown,
		WorstTime:  WorstTime(breakdown),
		TakeAction: TakeAction(entries, breakdown),
	}, nil
}

func (ss *ScorecardService) UpdateEntry(ctx context.Context, entryID, uid uuid.UUID, req *UpdateEntryRequest) (*entity.ScorecardEntry, error) {
	entry, err := ss.ownedEntry(ctx, entryID, uid)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(*req); err != nil {
		return nil, err
	}
	entry.HabitName = strings.TrimSpace(req.HabitName)
	entry.Rating = req.Rating
	entry.TimeOfDay = req.TimeOfDay
	entry.IdentityID = req.IdentityID
	err = ss.repo.Update(ctx, entry)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return nil, err
		}
		return nil, errors.New("scorecard repository error: " + err.Error())
	}
	return entry, nil
}

func (ss *ScorecardService) UpdateRating(ctx context.Context, entryID, uid uuid.UUID, rating entity.Rating) (*entity.ScorecardEntry, error) {
	entry, err := ss.ownedEntry(ctx, entryID, uid)
	if err != nil {
		return nil, err
	}
	switch rating {
	case entity.RatingPositive, entity.RatingNegative, entity.RatingNeutral:
	default:
		return nil, errorvalues.ErrInvalidRating
	}
	err = ss.repo.UpdateRating(ctx, entryID, rating)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return nil, err
		}
		return nil, errors.New("scorecard repository error: " + err.Error())
	}
	entry.Rating = rating
	return entry, nil
}

func (ss *ScorecardService) ReorderEntry(ctx context.Context, entryID, uid uuid.UUID, req *ReorderEntryRequest) error {
	if err := validateRequest(*req); err != nil {
		return err
	}
	err := ss.repo.Reorder(ctx, uid, entryID, req.TimeOfDay, req.Position)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return err
		}
		return errors.New("scorecard repository error: " + err.Error())
	}
	return nil
}

func (ss *ScorecardService) DeleteEntry(ctx context.Context, entryID, uid uuid.UUID) error {
	if _, err := ss.ownedEntry(ctx, entryID, uid); err != nil {
		return err
	}
	err := ss.repo.Delete(ctx, entryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return err
		}
		return errors.New("scorecard repository error: " + err.Error())
	}
	return nil
}

func (ss *ScorecardService) ownedEntry(ctx context.Context, entryID, uid uuid.UUID) (*entity.ScorecardEntry, error) {
	entry, err := ss.repo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return nil, err
		}
		return nil, errors.New("scorecard repository error: " + err.Error())
	}
	if entry.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	return entry, nil
}

func validateRequest(req any) error {
	err := validate.Struct(req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return err
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	return nil
}
