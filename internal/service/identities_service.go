package service

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/internal/repository"
	"github.com/limbo/atomic/pkg/design"
	"github.com/limbo/atomic/pkg/entity"
	"github.com/limbo/atomic/pkg/weekmath"
)

const (
	statementPrefix = "I am a person who "

	reinforcingShown = 3
	underminingShown = 2
)

type IdentitiesService struct {
	repo     repository.IdentitiesRepositoryI
	habits   repository.HabitsRepositoryI
	blockers repository.BlockersRepositoryI
	now      func() time.Time
}

func NewIdentitiesService(identitiesRepo repository.IdentitiesRepositoryI, habitsRepo repository.HabitsRepositoryI, blockersRepo repository.BlockersRepositoryI) *IdentitiesService {
	if identitiesRepo == nil || habitsRepo == nil || blockersRepo == nil {
		log.Fatal("provided nil repo to identitiesService")
	}
	return &IdentitiesService{
		repo:     identitiesRepo,
		habits:   habitsRepo,
		blockers: blockersRepo,
		now:      time.Now,
	}
}

// NormalizeStatement turns a completion of the "I am a person who ..."
// blank into the stored statement form. Accepts input that already carries
// the prefix or the trailing period so edits round-trip.
func NormalizeStatement(completion string) (string, error) {
	s := strings.TrimSpace(completion)
	if pfx := strings.TrimSpace(statementPrefix); len(s) >= len(pfx) && strings.EqualFold(s[:len(pfx)], pfx) {
		s = strings.TrimSpace(s[len(pfx):])
	}
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return "", errorvalues.ErrStatementTooShort
	}
	return statementPrefix + s + ".", nil
}

func (is *IdentitiesService) CreateIdentity(ctx context.Context, uid uuid.UUID, req *CreateIdentityRequest) (*entity.Identity, error) {
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
	statement, err := NormalizeStatement(req.Completion)
	if err != nil {
		return nil, err
	}
	count, err := is.repo.CountByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("identities repository error: " + err.Error())
	}
	id, err := is.repo.Create(ctx, &entity.Identity{
		UserID:    uid,
		Statement: statement,
		SortOrder: count,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, err
		}
		return nil, errors.New("identities repository error: " + err.Error())
	}
	identity, err := is.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("identities repository error: " + err.Error())
	}
	return identity, nil
}

func (is *IdentitiesService) GetIdentities(ctx context.Context, uid uuid.UUID) ([]*entity.Identity, error) {
	identities, err := is.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("identities repository error: " + err.Error())
	}
	return identities, nil
}

func (is *IdentitiesService) GetScoreboard(ctx context.Context, uid uuid.UUID) ([]*IdentityScore, error) {
	identities, err := is.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("identities repository error: " + err.Error())
	}
	habits, err := is.habits.GetActiveByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	blockers, err := is.blockers.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("blockers repository error: " + err.Error())
	}
	now := is.now()
	scores := make([]*IdentityScore, 0, len(identities))
	for _, identity := range identities {
		linked := habitsForIdentity(habits, identity.ID)
		scores = append(scores, &IdentityScore{
			Identity:    identity,
			VotesWeek:   weekmath.CountInRange(linked, weekmath.ThisWeekBounds(now)),
			TrendDelta:  weekmath.TrendDelta(linked, now),
			MomentumPct: MomentumPct(linked, now),
			Reinforcing: topReinforcing(linked),
			Total:       len(linked),
			Undermining: blockersForIdentity(blockers, identity.ID),
		})
	}
	return scores, nil
}

// MomentumPct is the share of possible daily votes cast this week across
// the linked habits, capped at 100. Zero linked habits means zero momentum.
func MomentumPct(linked []*entity.Habit, now time.Time) int {
	if len(linked) == 0 {
		return 0
	}
	votes := weekmath.CountInRange(linked, weekmath.ThisWeekBounds(now))
	pct := int(math.Round(float64(votes) / float64(len(linked)*7) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}

func habitsForIdentity(habits []*entity.Habit, identityID uuid.UUID) []*entity.Habit {
	linked := make([]*entity.Habit, 0)
	for _, h := range habits {
		if h.IdentityID != nil && *h.IdentityID == identityID {
			linked = append(linked, h)
		}
	}
	return linked
}

// topReinforcing picks the habits shown on the identity card: most recently
// completed first, never-completed last, sort_order breaking ties.
func topReinforcing(linked []*entity.Habit) []*entity.Habit {
	top := make([]*entity.Habit, len(linked))
	copy(top, linked)
	sort.SliceStable(top, func(i, j int) bool {
		a, b := top[i].LastCompletedDate, top[j].LastCompletedDate
		switch {
		case a == nil && b == nil:
			return top[i].SortOrder < top[j].SortOrder
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a > *b
		}
		return top[i].SortOrder < top[j].SortOrder
	})
	if len(top) > reinforcingShown {
		top = top[:reinforcingShown]
	}
	return top
}

func blockersForIdentity(blockers []*entity.HabitToBreak, identityID uuid.UUID) []*entity.HabitToBreak {
	linked := make([]*entity.HabitToBreak, 0)
	for _, b := range blockers {
		if b.IdentityID == identityID {
			linked = append(linked, b)
		}
		if len(linked) == underminingShown {
			break
		}
	}
	return linked
}

func (is *IdentitiesService) UpdateStatement(ctx context.Context, identityID, uid uuid.UUID, completion string) (*entity.Identity, error) {
	identity, err := is.ownedIdentity(ctx, identityID, uid)
	if err != nil {
		return nil, err
	}
	statement, err := NormalizeStatement(completion)
	if err != nil {
		return nil, err
	}
	err = is.repo.UpdateStatement(ctx, identity.ID, statement)
	if err != nil {
		if errors.Is(err, errorvalues.ErrIdentityNotFound) {
			return nil, err
		}
		return nil, errors.New("identities repository error: " + err.Error())
	}
	identity.Statement = statement
	return identity, nil
}

func (is *IdentitiesService) DeleteIdentity(ctx context.Context, identityID, uid uuid.UUID) error {
	if _, err := is.ownedIdentity(ctx, identityID, uid); err != nil {
		return err
	}
	err := is.repo.Delete(ctx, identityID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrIdentityNotFound) {
			return err
		}
		return errors.New("identities repository error: " + err.Error())
	}
	return nil
}

func (is *IdentitiesService) SaveBlocker(ctx context.Context, identityID, uid uuid.UUID, req *SaveBlockerRequest) (*entity.HabitToBreak, error) {
	if _, err := is.ownedIdentity(ctx, identityID, uid); err != nil {
		return nil, err
	}
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
	blocker := &entity.HabitToBreak{
		UserID:      uid,
		IdentityID:  identityID,
		Name:        strings.TrimSpace(req.Name),
		DesignBreak: design.TrimBreak(req.DesignBreak),
	}
	existing, err := is.blockers.GetByIdentityID(ctx, identityID)
	switch {
	case err == nil:
		blocker.ID = existing.ID
		if err := is.blockers.Update(ctx, blocker); err != nil {
			return nil, errors.New("blockers repository error: " + err.Error())
		}
	case errors.Is(err, errorvalues.ErrBlockerNotFound):
		id, err := is.blockers.Create(ctx, blocker)
		if err != nil {
			return nil, errors.New("blockers repository error: " + err.Error())
		}
		blocker.ID = id
	default:
		return nil, errors.New("blockers repository error: " + err.Error())
	}
	return is.blockers.GetByIdentityID(ctx, identityID)
}

func (is *IdentitiesService) DeleteBlocker(ctx context.Context, identityID, uid uuid.UUID) error {
	if _, err := is.ownedIdentity(ctx, identityID, uid); err != nil {
		return err
	}
	err := is.blockers.DeleteByIdentityID(ctx, identityID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrBlockerNotFound) {
			return err
		}
		return errors.New("blockers repository error: " + err.Error())
	}
	return nil
}

func (is *IdentitiesService) ownedIdentity(ctx context.Context, identityID, uid uuid.UUID) (*entity.Identity, error) {
	identity, err := is.repo.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrIdentityNotFound) {
			return nil, err
		}
		return nil, errors.New("identities repository error: " + err.Error())
	}
	if identity.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	return identity, nil
}
