package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/wizix/pickem-pool/internal/usecase"
)

func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	if err := h.syncService.RunCycle(ctx); err != nil {
		h.logger.ErrorContext(ctx, "manual sync job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"synced": true})
}

func (h *Handler) RunRecalculateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecalculateJob")
	defer span.End()

	var req recalculateWeekRequest
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

	result, err := h.resultService.RecalculateWeek(ctx, req.PoolID, req.Week, season)
	if err != nil {
		h.logger.ErrorContext(ctx, "recalculate job failed", "pool_id", req.PoolID, "week", req.Week, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
