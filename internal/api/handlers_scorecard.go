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

type CreateEntryRequest struct {
	HabitName  string           `json:"habit_name"`
	Rating     entity.Rating    `json:"rating"`
	TimeOfDay  entity.TimeOfDay `json:"time_of_day"`
	IdentityID *uuid.UUID       `json:"identity_id,omitempty"`
}

// UpdateEntryRequest edits a scorecard row. When only the rating is sent
// the rest of the row stays as is.
type UpdateEntryRequest struct {
	HabitName  string           `json:"habit_name,omitempty"`
	Rating     entity.Rating    `json:"rating"`
	TimeOfDay  entity.TimeOfDay `json:"time_of_day,omitempty"`
	IdentityID *uuid.UUID       `json:"identity_id,omitempty"`
}

type ReorderEntryRequest struct {
	TimeOfDay entity.TimeOfDay `json:"time_of_day"`
	Position  int              `json:"position"`
}

func (s *Server) AddScorecardEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("add scorecard entry error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateEntryRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("add scorecard entry error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.scorecardService.AddEntry(ctx, uid, &service.CreateEntryRequest{
		HabitName:  req.HabitName,
		Rating:     req.Rating,
		TimeOfDay:  req.TimeOfDay,
		IdentityID: req.IdentityID,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			logger.Error("add scorecard entry error: unexist profile")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't add entry: profile doesn't exist", nil)
		default:
			logger.Error("add scorecard entry error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't add scorecard entry", err)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, entry)
	logger.Info("scorecard entry added")
}

func (s *Server) GetScorecard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get scorecard error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	card, err := s.scorecardService.GetScorecard(ctx, uid)
	if err != nil {
		logger.Error("getting scorecard error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting scorecard", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, card)
	logger.Info("scorecard provided")
}

func (s *Server) UpdateScorecardEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update scorecard entry error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("update scorecard entry error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	var req UpdateEntryRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update scorecard entry error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	var entry *entity.ScorecardEntry
	if req.HabitName == "" && req.TimeOfDay == "" {
		entry, err = s.scorecardService.UpdateRating(ctx, id, uid, req.Rating)
	} else {
		entry, err = s.scorecardService.UpdateEntry(ctx, id, uid, &service.UpdateEntryRequest{
			HabitName:  req.HabitName,
			Rating:     req.Rating,
			TimeOfDay:  req.TimeOfDay,
			IdentityID: req.IdentityID,
		})
	}
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrEntryNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("update scorecard entry error: unexist entry")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "scorecard entry doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrInvalidRating):
			logger.Error("update scorecard entry error: invalid rating")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "rating must be +, - or =", nil)
		default:
			logger.Error("update scorecard entry error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't update scorecard entry", err)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("scorecard entry updated")
}

func (s *Server) ReorderScorecardEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("reorder scorecard entry error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("reorder scorecard entry error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	var req ReorderEntryRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("reorder scorecard entry error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.scorecardService.ReorderEntry(ctx, id, uid, &service.ReorderEntryRequest{
		TimeOfDay: req.TimeOfDay,
		Position:  req.Position,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrEntryNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("reorder scorecard entry error: unexist entry")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "scorecard entry doesn't exist", nil)
		default:
			logger.Error("reorder scorecard entry error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't reorder scorecard entry", err)
		}
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("scorecard entry reordered")
}

func (s *Server) DeleteScorecardEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("scorecard entry deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("scorecard entry deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.scorecardService.DeleteEntry(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrEntryNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("scorecard entry deletion error: unexist entry")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "scorecard entry doesn't exist", nil)
		default:
			logger.Error("scorecard entry deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting scorecard entry", nil)
		}
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("scorecard entry deleted")
}
