package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/internal/service"
	"github.com/limbo/atomic/pkg/entity"
	"github.com/limbo/atomic/pkg/httputil"
)

type RateHabitRequest struct {
	Rating   entity.Rating `json:"rating"`
	Friction *string       `json:"friction,omitempty"`
}

func (s *Server) GetReviewWeek(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get review week error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	week, err := s.reviewService.GetWeek(ctx, uid)
	if err != nil {
		logger.Error("getting review week error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting review week", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, week)
	logger.Info("review week provided")
}

func (s *Server) RateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("rate habit error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	habitID, err := uuid.Parse(r.PathValue("habitID"))
	if err != nil {
		logger.Error("rate habit error: invalid habit id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req RateHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("rate habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.reviewService.RateHabit(ctx, habitID, uid, &service.RateHabitRequest{
		Rating:   req.Rating,
		Friction: req.Friction,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("rate habit error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		default:
			logger.Error("rate habit error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't rate habit", err)
		}
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("habit rated for the week")
}

func (s *Server) ApplyAdvice(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("apply advice error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	habitID, err := uuid.Parse(r.PathValue("habitID"))
	if err != nil {
		logger.Error("apply advice error: invalid habit id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	advice, err := s.reviewService.ApplyAdvice(ctx, habitID, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("apply advice error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrRatingNotFound):
			logger.Error("apply advice error: habit not rated this week")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit has no rating this week", nil)
		case errors.Is(err, errorvalues.ErrFrictionRequired):
			logger.Error("apply advice error: nothing to fix")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "advice applies only to struggled habits with a friction", nil)
		default:
			logger.Error("apply advice error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while applying advice", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]string{"advice": advice})
	logger.Info("review advice applied")
}
