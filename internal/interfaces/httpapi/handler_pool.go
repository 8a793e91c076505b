package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/wizix/pickem-pool/internal/usecase"
)

func (h *Handler) CreatePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePool")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createPoolRequest
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

	created, err := h.poolService.Create(ctx, principal.UserID, req.Name, req.Description, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "create pool failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, poolToDTO(created))
}

func (h *Handler) ListPools(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPools")
	defer span.End()

	pools, err := h.poolService.ListActive(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list pools failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]poolDTO, 0, len(pools))
	for _, p := range pools {
		items = append(items, poolToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyPools(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPools")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	pools, err := h.poolService.ListMine(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my pools failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]poolDTO, 0, len(pools))
	for _, p := range pools {
		items = append(items, poolToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPool")
	defer span.End()

	poolID := strings.TrimSpace(r.PathValue("poolID"))

	found, err := h.poolService.Get(ctx, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pool failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, poolToDTO(found))
}

func (h *Handler) JoinPool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinPool")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID := strings.TrimSpace(r.PathValue("poolID"))

	if err := h.poolService.Join(ctx, poolID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "join pool failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"joined": true})
}

func (h *Handler) LeavePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeavePool")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID := strings.TrimSpace(r.PathValue("poolID"))

	if err := h.poolService.Leave(ctx, poolID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "leave pool failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"left": true})
}

func (h *Handler) ListPoolMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPoolMembers")
	defer span.End()

	poolID := strings.TrimSpace(r.PathValue("poolID"))

	members, err := h.poolService.Members(ctx, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "list pool members failed", "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]memberDTO, 0, len(members))
	for _, m := range members {
		items = append(items, memberToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	poolID := strings.TrimSpace(r.PathValue("poolID"))
	season, err := parseOptionalIntQuery(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.leaderboardService.Standings(ctx, poolID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "pool_id", poolID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(standings))
	for _, s := range standings {
		items = append(items, standingToDTO(s))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
