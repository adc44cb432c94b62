package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/footylabs/fantasy-contest/internal/usecase"
)

type submitTeamRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=64"`
	PlayerIDs   []int  `json:"playerIds" validate:"required,min=1,dive,gt=0"`
}

type transferRequest struct {
	OutgoingID        int  `json:"outgoingId" validate:"required,gt=0"`
	IncomingID        int  `json:"incomingId" validate:"required,gt=0"`
	AllowPointPenalty bool `json:"allowPointPenalty"`
}

type tripleCaptainRequest struct {
	CaptainID int `json:"captainId" validate:"required,gt=0"`
}

type wildBenchRequest struct {
	ExtraPlayerID int `json:"extraPlayerId" validate:"required,gt=0"`
}

func (h *Handler) SubmitTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitTeamRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	st, degraded, err := h.teamService.SubmitTeam(ctx, usecase.SubmitTeamInput{
		UserID:      principal.UserID,
		DisplayName: req.DisplayName,
		PlayerIDs:   req.PlayerIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit team failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, stateToDTO(st, degraded))
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Transfer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req transferRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	st, degraded, err := h.transferService.Transfer(ctx, usecase.TransferInput{
		UserID:            principal.UserID,
		OutgoingID:        req.OutgoingID,
		IncomingID:        req.IncomingID,
		AllowPointPenalty: req.AllowPointPenalty,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "transfer failed",
			"user_id", principal.UserID, "outgoing", req.OutgoingID, "incoming", req.IncomingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stateToDTO(st, degraded))
}

func (h *Handler) ActivateWildcard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateWildcard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	st, degraded, err := h.transferService.ActivateWildcard(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "wildcard activation failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stateToDTO(st, degraded))
}

func (h *Handler) ActivateTripleCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateTripleCaptain")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req tripleCaptainRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	st, degraded, err := h.transferService.ActivateTripleCaptain(ctx, principal.UserID, req.CaptainID)
	if err != nil {
		h.logger.WarnContext(ctx, "triple captain activation failed",
			"user_id", principal.UserID, "captain_id", req.CaptainID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stateToDTO(st, degraded))
}

func (h *Handler) ActivateWildBench(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateWildBench")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req wildBenchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	st, degraded, err := h.transferService.ActivateWildBench(ctx, principal.UserID, req.ExtraPlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "wild bench activation failed",
			"user_id", principal.UserID, "extra_player_id", req.ExtraPlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stateToDTO(st, degraded))
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	st, degraded, err := h.teamService.GetProfile(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stateToDTO(st, degraded))
}

func (h *Handler) ComputePoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ComputePoints")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	result, err := h.pointsService.ComputeGameweekPoints(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "compute points failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pointsResultToDTO(result))
}
