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
	"github.com/limbo/atomic/pkg/design"
	"github.com/limbo/atomic/pkg/httputil"
)

type CreateIdentityRequest struct {
	Completion string `json:"completion"`
}

type UpdateIdentityRequest struct {
	Statement string `json:"statement"`
}

type SaveBlockerRequest struct {
	Name        string        `json:"name"`
	DesignBreak *design.Break `json:"design_break,omitempty"`
}

func (s *Server) CreateIdentity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create identity error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateIdentityRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create identity error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	identity, err := s.identitiesService.CreateIdentity(ctx, uid, &service.CreateIdentityRequest{
		Completion: req.Completion,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrStatementTooShort):
			logger.Error("create identity error: statement too short")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "identity statement needs at least 3 characters", nil)
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			logger.Error("create identity error: unexist profile")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create identity: profile doesn't exist", nil)
		default:
			logger.Error("create identity error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating identity", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, identity)
	logger.Info("identity created")
}

func (s *Server) GetIdentities(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get identities error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	scores, err := s.identitiesService.GetScoreboard(ctx, uid)
	if err != nil {
		logger.Error("getting identities error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting identities", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":        uid.String(),
		"identities": scores,
	})
	logger.Info("identities provided")
}

func (s *Server) UpdateIdentity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update identity error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("update identity error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid identity id in path value", nil)
		return
	}
	var req UpdateIdentityRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update identity error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	identity, err := s.identitiesService.UpdateStatement(ctx, id, uid, req.Statement)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrStatementTooShort):
			logger.Error("update identity error: statement too short")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "identity statement needs at least 3 characters", nil)
		case errors.Is(err, errorvalues.ErrIdentityNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("update identity error: unexist identity")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "identity doesn't exist", nil)
		default:
			logger.Error("update identity error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating identity", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, identity)
	logger.Info("identity updated")
}

func (s *Server) DeleteIdentity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("identity deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("identity deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid identity id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.identitiesService.DeleteIdentity(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrIdentityNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("identity deletion error: unexist identity")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "identity doesn't exist", nil)
		default:
			logger.Error("identity deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting identity", nil)
		}
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("identity deleted")
}

func (s *Server) SaveBlocker(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("save blocker error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("save blocker error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid identity id in path value", nil)
		return
	}
	var req SaveBlockerRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("save blocker error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	blocker, err := s.identitiesService.SaveBlocker(ctx, id, uid, &service.SaveBlockerRequest{
		Name:        req.Name,
		DesignBreak: req.DesignBreak,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrIdentityNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("save blocker error: unexist identity")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "identity doesn't exist", nil)
		default:
			logger.Error("save blocker error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while saving habit to break", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, blocker)
	logger.Info("habit to break saved")
}

func (s *Server) DeleteBlocker(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("blocker deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("blocker deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid identity id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.identitiesService.DeleteBlocker(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrIdentityNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("blocker deletion error: unexist identity")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "identity doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrBlockerNotFound):
			logger.Error("blocker deletion error: nothing to delete")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit to break doesn't exist", nil)
		default:
			logger.Error("blocker deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting habit to break", nil)
		}
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("habit to break deleted")
}
