package errorvalues

import "errors"

var (
	ErrProfileExists    = errors.New("profile with such email already exists")
	ErrProfileNotFound  = errors.New("profile doesn't exist")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrIdentityNotFound  = errors.New("identity doesn't exist")
	ErrStatementTooShort = errors.New("identity statement completion is too short")

	ErrHabitNotFound     = errors.New("habit doesn't exist")
	ErrEmptyName         = errors.New("name is empty")
	ErrOwnerNotFound     = errors.New("owner doesn't exist")
	ErrWrongOwner        = errors.New("entity has different owner")
	ErrHabitArchived     = errors.New("habit is archived")
	ErrAlreadyCompleted  = errors.New("habit already completed today")
	ErrAnchorNotFound    = errors.New("stack anchor doesn't exist")

	ErrEntryNotFound = errors.New("scorecard entry doesn't exist")
	ErrInvalidRating = errors.New("invalid rating")

	ErrBlockerNotFound = errors.New("habit to break doesn't exist")

	ErrRatingNotFound   = errors.New("weekly rating doesn't exist")
	ErrFrictionRequired = errors.New("friction tag required for negative rating")
)
