package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/wizix/pickem-pool/internal/usecase"
)

func (h *Handler) SubmitPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID := strings.TrimSpace(r.PathValue("poolID"))

	var req submitPicksRequest
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

	season := req.Season
	if season == 0 {
		_, season = h.scoreboardService.CurrentWeek()
	}

	selections := make([]usecase.PickSelection, 0, len(req.Picks))
	for _, p := range req.Picks {
		selections = append(selections, usecase.PickSelection{
			GameID:       p.GameID,
			PickedTeamID: p.TeamID,
		})
	}

	saved, err := h.pickService.Submit(ctx, principal.UserID, poolID, req.Week, season, selections)
	if err != nil {
		h.logger.WarnContext(ctx, "submit picks failed", "user_id", principal.UserID, "pool_id", poolID, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(saved))
}

func (h *Handler) ListMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID := strings.TrimSpace(r.PathValue("poolID"))

	week, season, err := h.pickWindow(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.pickService.ListOwn(ctx, principal.UserID, poolID, week, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list my picks failed", "user_id", principal.UserID, "pool_id", poolID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(picks))
}

func (h *Handler) ListPoolPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPoolPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID := strings.TrimSpace(r.PathValue("poolID"))

	week, season, err := h.pickWindow(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.pickService.ListForPool(ctx, principal.UserID, poolID, week, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list pool picks failed", "user_id", principal.UserID, "pool_id", poolID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(picks))
}

// pickWindow resolves week and season query parameters, defaulting both to
// the current week of the schedule.
func (h *Handler) pickWindow(r *http.Request) (int, int, error) {
	week, err := parseOptionalIntQuery(r, "week")
	if err != nil {
		return 0, 0, err
	}
	season, err := parseOptionalIntQuery(r, "season")
	if err != nil {
		return 0, 0, err
	}

	currentWeek, currentSeason := h.scoreboardService.CurrentWeek()
	if week == 0 {
		week = currentWeek
	}
	if season == 0 {
		season = currentSeason
	}
	return week, season, nil
}
