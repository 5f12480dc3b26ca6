package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/limbo/atomic/internal/api"
	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/internal/service"
	"github.com/limbo/atomic/pkg/entity"
	jwtservice "github.com/limbo/atomic/pkg/jwt_service"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	os.Exit(m.Run())
}

type mockState int

const (
	stateSuccess mockState = iota
	stateServiceError
	stateExists
	stateNotFound
	stateWrongCredentials
	stateArchived
	stateAlreadyCompleted
	stateFrictionRequired
	stateNoRating
)

var (
	email           = "test@example.com"
	password        = "test_password"
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userID          = uuid.New()
	habitID         = uuid.New()
	identityID      = uuid.New()
)

func testProfile() *entity.Profile {
	return &entity.Profile{
		ID:           userID,
		Email:        email,
		DisplayName:  "Tester",
		PasswordHash: string(passwordHash),
	}
}

func testHabit() *entity.Habit {
	return &entity.Habit{
		ID:        habitID,
		UserID:    userID,
		Name:      "Read 10 pages",
		Frequency: entity.FrequencyDaily,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

type profileServiceMock struct {
	state mockState
}

func (m *profileServiceMock) ChangeState(state mockState) {
	m.state = state
}

func (m *profileServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.Profile, error) {
	switch m.state {
	case stateSuccess:
		return testProfile(), nil
	case stateExists:
		return nil, errorvalues.ErrProfileExists
	}
	return nil, errors.New("mocked error")
}

func (m *profileServiceMock) Login(ctx context.Context, loginEmail, loginPassword string) (*entity.Profile, error) {
	switch m.state {
	case stateSuccess:
		return testProfile(), nil
	case stateWrongCredentials:
		return nil, errorvalues.ErrWrongCredentials
	}
	return nil, errors.New("mocked error")
}

func (m *profileServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	switch m.state {
	case stateSuccess:
		return testProfile(), nil
	case stateNotFound:
		return nil, errorvalues.ErrProfileNotFound
	}
	return nil, errors.New("mocked error")
}

func (m *profileServiceMock) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*entity.Profile, error) {
	if m.state == stateSuccess {
		p := testProfile()
		p.DisplayName = displayName
		return p, nil
	}
	return nil, errors.New("mocked error")
}

func (m *profileServiceMock) DeleteAccount(ctx context.Context, id uuid.UUID, accPassword string) error {
	if m.state == stateSuccess {
		return nil
	}
	return errors.New("mocked error")
}

type habitsServiceMock struct {
	state mockState
}

func (m *habitsServiceMock) ChangeState(state mockState) {
	m.state = state
}

func (m *habitsServiceMock) err() error {
	switch m.state {
	case stateSuccess:
		return nil
	case stateNotFound:
		return errorvalues.ErrHabitNotFound
	case stateArchived:
		return errorvalues.ErrHabitArchived
	case stateAlreadyCompleted:
		return errorvalues.ErrAlreadyCompleted
	}
	return errors.New("mocked error")
}

func (m *habitsServiceMock) CreateHabit(ctx context.Context, uid uuid.UUID, req *service.CreateHabitRequest) (*entity.Habit, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	h := testHabit()
	h.Name = req.Name
	h.IdentityID = req.IdentityID
	return h, nil
}

func (m *habitsServiceMock) GetActiveHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	return []*entity.Habit{testHabit()}, nil
}

func (m *habitsServiceMock) GetArchivedHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	return []*entity.Habit{}, nil
}

func (m *habitsServiceMock) GetHabit(ctx context.Context, id, uid uuid.UUID) (*entity.Habit, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	return testHabit(), nil
}

func (m *habitsServiceMock) UpdateHabit(ctx context.Context, id, uid uuid.UUID, req *service.UpdateHabitRequest) (*entity.Habit, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	return testHabit(), nil
}

func (m *habitsServiceMock) ArchiveHabit(ctx context.Context, id, uid uuid.UUID) error {
	return m.err()
}

func (m *habitsServiceMock) RestoreHabit(ctx context.Context, id, uid uuid.UUID) error {
	return m.err()
}

func (m *habitsServiceMock) CompleteHabit(ctx context.Context, id, uid uuid.UUID) (*entity.Habit, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	today := time.Now().Format("2006-01-02")
	h := testHabit()
	h.CurrentStreak = 1
	h.LastCompletedDate = &today
	return h, nil
}

func (m *habitsServiceMock) ResetHabit(ctx context.Context, id, uid uuid.UUID, twoMinuteVersion string) (*entity.Habit, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	h := testHabit()
	h.TwoMinuteVersion = twoMinuteVersion
	return h, nil
}

func (m *habitsServiceMock) DeleteHabit(ctx context.Context, id, uid uuid.UUID) error {
	return m.err()
}

type identitiesServiceMock struct {
	state mockState
}

func (m *identitiesServiceMock) ChangeState(state mockState) {
	m.state = state
}

func (m *identitiesServiceMock) err() error {
	switch m.state {
	case stateSuccess:
		return nil
	case stateNotFound:
		return errorvalues.ErrIdentityNotFound
	}
	return errors.New("mocked error")
}

func (m *identitiesServiceMock) testIdentity() *entity.Identity {
	return &entity.Identity{
		ID:        identityID,
		UserID:    userID,
		Statement: "I am a person who reads every day.",
	}
}

func (m *identitiesServiceMock) CreateIdentity(ctx context.Context, uid uuid.UUID, req *service.CreateIdentityRequest) (*entity.Identity, error) {
	if len(req.Completion) < 3 {
		return nil, errorvalues.ErrStatementTooShort
	}
	if err := m.err(); err != nil {
		return nil, err
	}
	return m.testIdentity(), nil
}

func (m *identitiesServiceMock) GetIdentities(ctx context.Context, uid uuid.UUID) ([]*entity.Identity, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	return []*entity.Identity{m.testIdentity()}, nil
}

func (m *identitiesServiceMock) GetScoreboard(ctx context.Context, uid uuid.UUID) ([]*service.IdentityScore, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	return []*service.IdentityScore{
		{
			Identity:    m.testIdentity(),
			VotesWeek:   2,
			MomentumPct: 29,
			Reinforcing: []*entity.Habit{testHabit()},
			Total:       1,
		},
	}, nil
}

func (m *identitiesServiceMock) UpdateStatement(ctx context.Context, id, uid uuid.UUID, completion string) (*entity.Identity, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	return m.testIdentity(), nil
}

func (m *identitiesServiceMock) DeleteIdentity(ctx context.Context, id, uid uuid.UUID) error {
	return m.err()
}

func (m *identitiesServiceMock) SaveBlocker(ctx context.Context, id, uid uuid.UUID, req *service.SaveBlockerRequest) (*entity.HabitToBreak, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	return &entity.HabitToBreak{
		ID:         uuid.New(),
		UserID:     userID,
		IdentityID: identityID,
		Name:       req.Name,
	}, nil
}

func (m *identitiesServiceMock) DeleteBlocker(ctx context.Context, id, uid uuid.UUID) error {
	return m.err()
}

type reviewServiceMock struct {
	state mockState
}

func (m *reviewServiceMock) ChangeState(state mockState) {
	m.state = state
}

func (m *reviewServiceMock) err() error {
	switch m.state {
	case stateSuccess:
		return nil
	case stateNotFound:
		return errorvalues.ErrHabitNotFound
	case stateFrictionRequired:
		return errorvalues.ErrFrictionRequired
	case stateNoRating:
		return errorvalues.ErrRatingNotFound
	}
	return errors.New("mocked error")
}

func (m *reviewServiceMock) GetWeek(ctx context.Context, uid uuid.UUID) (*service.ReviewWeek, error) {
	if err := m.err(); err != nil {
		return nil, err
	}
	return &service.ReviewWeek{
		WeekStart: "2025-06-09",
		Habits:    []*entity.Habit{testHabit()},
		Ratings:   []*entity.WeeklyRating{},
		Step:      service.StepRate,
	}, nil
}

func (m *reviewServiceMock) RateHabit(ctx context.Context, id, uid uuid.UUID, req *service.RateHabitRequest) error {
	return m.err()
}

func (m *reviewServiceMock) ApplyAdvice(ctx context.Context, id, uid uuid.UUID) (string, error) {
	if err := m.err(); err != nil {
		return "", err
	}
	return "Add cue", nil
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), "User-ID", userID))
}

func TestRegister(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Email:       email,
		DisplayName: "Tester",
		Password:    password,
	})
	require.NoError(t, err)
	mock := profileServiceMock{}
	serv := api.New(&api.ServicesList{
		ProfileService: &mock,
	})
	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(stateSuccess)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		assert.Equal(t, userID.String(), result["uid"])
	})
	t.Run("email taken", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(stateExists)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(stateServiceError)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
		mock.ChangeState(stateSuccess)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	mock := profileServiceMock{}
	serv := api.New(&api.ServicesList{
		ProfileService: &mock,
		JwtService:     jwtservice.New("secret"),
	})
	t.Run("logged in", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(stateSuccess)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		token, ok := result["token"].(string)
		if !ok || token == "" {
			t.Error("invalid token")
		}
	})
	t.Run("wrong credentials", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(stateWrongCredentials)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		mock.ChangeState(stateSuccess)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func testEndpoint(w http.ResponseWriter, r *http.Request) {
	uid, err := api.GetUIDFromContext(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"uid": "` + uid.String() + `"}`))
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwtservice.New("secret")
	mock := profileServiceMock{}
	serv := api.New(&api.ServicesList{
		ProfileService: &mock,
		JwtService:     jwtService,
	})
	handler := serv.AuthMiddleware(http.HandlerFunc(testEndpoint))
	token, err := jwtService.GenerateToken(testProfile())
	require.NoError(t, err)

	t.Run("successful auth", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		mock.ChangeState(stateSuccess)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("no header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		mock.ChangeState(stateSuccess)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		mock.ChangeState(stateSuccess)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("profile gone", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		mock.ChangeState(stateNotFound)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestCreateHabitHandler(t *testing.T) {
	mock := habitsServiceMock{}
	serv := api.New(&api.ServicesList{
		HabitsService: &mock,
	})
	body, err := sonic.ConfigDefault.Marshal(api.CreateHabitRequest{
		Name:       "Read 10 pages",
		IdentityID: &identityID,
	})
	require.NoError(t, err)

	testCases := []struct {
		name         string
		state        mockState
		body         []byte
		expectedCode int
	}{
		{name: "created", state: stateSuccess, body: body, expectedCode: http.StatusCreated},
		{name: "profile gone", state: stateServiceError, body: body, expectedCode: http.StatusBadRequest},
		{name: "corrupted body", state: stateSuccess, body: []byte("corrupted"), expectedCode: http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mock.ChangeState(tc.state)
			rr := httptest.NewRecorder()
			r := authed(httptest.NewRequest(http.MethodPost, "/api/v1/habits", bytes.NewReader(tc.body)))
			serv.CreateHabit(rr, r)
			assert.Equal(t, tc.expectedCode, rr.Result().StatusCode)
		})
	}
	t.Run("unauthorized", func(t *testing.T) {
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/habits", bytes.NewReader(body))
		serv.CreateHabit(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestGetHabitsHandler(t *testing.T) {
	mock := habitsServiceMock{}
	serv := api.New(&api.ServicesList{
		HabitsService: &mock,
	})
	t.Run("active by default", func(t *testing.T) {
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodGet, "/api/v1/habits", nil))
		serv.GetHabits(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		habits, ok := result["habits"].([]any)
		require.True(t, ok)
		assert.Len(t, habits, 1)
	})
	t.Run("archived filter", func(t *testing.T) {
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodGet, "/api/v1/habits?state=archived", nil))
		serv.GetHabits(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("unknown filter", func(t *testing.T) {
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodGet, "/api/v1/habits?state=paused", nil))
		serv.GetHabits(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		mock.ChangeState(stateServiceError)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodGet, "/api/v1/habits", nil))
		serv.GetHabits(rr, r)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestCompleteHabitHandler(t *testing.T) {
	mock := habitsServiceMock{}
	serv := api.New(&api.ServicesList{
		HabitsService: &mock,
	})
	testCases := []struct {
		name         string
		state        mockState
		expectedCode int
	}{
		{name: "completed", state: stateSuccess, expectedCode: http.StatusOK},
		{name: "already completed today", state: stateAlreadyCompleted, expectedCode: http.StatusConflict},
		{name: "archived", state: stateArchived, expectedCode: http.StatusConflict},
		{name: "not found", state: stateNotFound, expectedCode: http.StatusNotFound},
		{name: "service error", state: stateServiceError, expectedCode: http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mock.ChangeState(tc.state)
			rr := httptest.NewRecorder()
			r := authed(httptest.NewRequest(http.MethodPost, "/api/v1/habits/"+habitID.String()+"/complete", nil))
			r.SetPathValue("id", habitID.String())
			serv.CompleteHabit(rr, r)
			assert.Equal(t, tc.expectedCode, rr.Result().StatusCode)
		})
	}
	t.Run("invalid id", func(t *testing.T) {
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/api/v1/habits/nope/complete", nil))
		r.SetPathValue("id", "nope")
		serv.CompleteHabit(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestDeleteHabitHandler(t *testing.T) {
	mock := habitsServiceMock{}
	serv := api.New(&api.ServicesList{
		HabitsService: &mock,
	})
	testCases := []struct {
		name         string
		state        mockState
		expectedCode int
	}{
		{name: "deleted", state: stateSuccess, expectedCode: http.StatusNoContent},
		{name: "not found", state: stateNotFound, expectedCode: http.StatusNotFound},
		{name: "service error", state: stateServiceError, expectedCode: http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mock.ChangeState(tc.state)
			rr := httptest.NewRecorder()
			r := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/habits/"+habitID.String(), nil))
			r.SetPathValue("id", habitID.String())
			serv.DeleteHabit(rr, r)
			assert.Equal(t, tc.expectedCode, rr.Result().StatusCode)
		})
	}
}

func TestIdentityHandlers(t *testing.T) {
	mock := identitiesServiceMock{}
	serv := api.New(&api.ServicesList{
		IdentitiesService: &mock,
	})
	t.Run("create identity", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.CreateIdentityRequest{
			Completion: "reads every day",
		})
		require.NoError(t, err)
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/api/v1/identities", bytes.NewReader(body)))
		serv.CreateIdentity(rr, r)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("too short completion", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.CreateIdentityRequest{
			Completion: "ab",
		})
		require.NoError(t, err)
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/api/v1/identities", bytes.NewReader(body)))
		serv.CreateIdentity(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("scoreboard", func(t *testing.T) {
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodGet, "/api/v1/identities", nil))
		serv.GetIdentities(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		identities, ok := result["identities"].([]any)
		require.True(t, ok)
		require.Len(t, identities, 1)
		first, ok := identities[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(2), first["votes_this_week"])
		assert.Equal(t, float64(29), first["momentum_pct"])
	})
	t.Run("delete missing identity", func(t *testing.T) {
		mock.ChangeState(stateNotFound)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/identities/"+identityID.String(), nil))
		r.SetPathValue("id", identityID.String())
		serv.DeleteIdentity(rr, r)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestReviewHandlers(t *testing.T) {
	mock := reviewServiceMock{}
	serv := api.New(&api.ServicesList{
		ReviewService: &mock,
	})
	t.Run("get week", func(t *testing.T) {
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodGet, "/api/v1/review/week", nil))
		serv.GetReviewWeek(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var week service.ReviewWeek
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&week))
		assert.Equal(t, service.StepRate, week.Step)
	})
	t.Run("rate habit", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.RateHabitRequest{
			Rating: entity.RatingPositive,
		})
		require.NoError(t, err)
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPut, "/api/v1/review/week/ratings/"+habitID.String(), bytes.NewReader(body)))
		r.SetPathValue("habitID", habitID.String())
		serv.RateHabit(rr, r)
		assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)
	})
	t.Run("struggled without friction accepted", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.RateHabitRequest{
			Rating: entity.RatingNegative,
		})
		require.NoError(t, err)
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPut, "/api/v1/review/week/ratings/"+habitID.String(), bytes.NewReader(body)))
		r.SetPathValue("habitID", habitID.String())
		serv.RateHabit(rr, r)
		assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)
	})
	t.Run("apply before friction picked", func(t *testing.T) {
		mock.ChangeState(stateFrictionRequired)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/api/v1/review/week/ratings/"+habitID.String()+"/apply", nil))
		r.SetPathValue("habitID", habitID.String())
		serv.ApplyAdvice(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("apply advice", func(t *testing.T) {
		mock.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/api/v1/review/week/ratings/"+habitID.String()+"/apply", nil))
		r.SetPathValue("habitID", habitID.String())
		serv.ApplyAdvice(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]string)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		assert.Equal(t, "Add cue", result["advice"])
	})
	t.Run("apply without rating", func(t *testing.T) {
		mock.ChangeState(stateNoRating)
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodPost, "/api/v1/review/week/ratings/"+habitID.String()+"/apply", nil))
		r.SetPathValue("habitID", habitID.String())
		serv.ApplyAdvice(rr, r)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}
