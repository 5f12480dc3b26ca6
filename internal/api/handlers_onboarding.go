package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/internal/service"
	"github.com/limbo/atomic/pkg/design"
	"github.com/limbo/atomic/pkg/httputil"
)

type OnboardingRequest struct {
	IdentityCompletion string `json:"identity_completion"`
	HabitName          string `json:"habit_name"`
	TwoMinuteVersion   string `json:"two_minute_version"`
	CueType            string `json:"cue_type,omitempty"`
	CueValue           string `json:"cue_value,omitempty"`
	Reward             string `json:"reward,omitempty"`
	BundleWith         string `json:"bundle_with,omitempty"`
	CompleteNow        bool   `json:"complete_now,omitempty"`
}

type OnboardingResponse struct {
	IdentityID string `json:"identity_id"`
	HabitID    string `json:"habit_id"`
	Completed  bool   `json:"completed"`
}

// Onboarding runs the whole first-launch wizard in one request: identity,
// first habit with its design template and an optional first vote. Writes
// are sequential, an early failure leaves the steps before it in place.
func (s *Server) Onboarding(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("onboarding error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req OnboardingRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("onboarding error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()

	identity, err := s.identitiesService.CreateIdentity(ctx, uid, &service.CreateIdentityRequest{
		Completion: req.IdentityCompletion,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrStatementTooShort):
			logger.Error("onboarding error: statement too short")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "identity statement needs at least 3 characters", nil)
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			logger.Error("onboarding error: unexist profile")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "profile doesn't exist", nil)
		default:
			logger.Error("onboarding error: identity step failed", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating identity", nil)
		}
		return
	}

	habit, err := s.habitsService.CreateHabit(ctx, uid, &service.CreateHabitRequest{
		Name:        req.HabitName,
		IdentityID:  &identity.ID,
		DesignBuild: onboardingBuild(&req),
	})
	if err != nil {
		logger.Error("onboarding error: habit step failed", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "identity created but habit step failed", err)
		return
	}

	completed := false
	if req.CompleteNow {
		_, err = s.habitsService.CompleteHabit(ctx, habit.ID, uid)
		if err != nil {
			logger.Error("onboarding error: first vote failed", slog.String("error", err.Error()))
		} else {
			completed = true
		}
	}

	httputil.WriteJSONResponse(w, http.StatusCreated, OnboardingResponse{
		IdentityID: identity.ID.String(),
		HabitID:    habit.ID.String(),
		Completed:  completed,
	})
	logger.Info("onboarding finished")
}

// onboardingBuild folds the flat wizard answers into a 4 Laws template.
func onboardingBuild(req *OnboardingRequest) *design.Build {
	b := design.Build{}
	if req.CueValue != "" {
		obvious := design.BuildObvious{}
		if req.CueType == "intention" {
			obvious.ImplementationIntention = req.CueValue
		} else {
			obvious.ClearCue = req.CueValue
		}
		b.Obvious = &obvious
	}
	if req.BundleWith != "" {
		b.Attractive = &design.BuildAttractive{TemptationBundling: req.BundleWith}
	}
	if req.TwoMinuteVersion != "" {
		b.Easy = &design.BuildEasy{TwoMinuteRule: req.TwoMinuteVersion}
	}
	if req.Reward != "" {
		b.Satisfying = &design.BuildSatisfying{ImmediateReward: req.Reward}
	}
	return design.TrimBuild(&b)
}
