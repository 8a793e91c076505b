package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/wizix/pickem-pool/internal/poller"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	health := healthDTO{Status: "ok"}
	if h.hub != nil {
		health.ConnectedClients = h.hub.ClientCount()
	}
	if h.pollerStatus != nil {
		status := h.pollerStatus.Status()
		health.PollerState = status.State
		health.ConsecutiveFailures = status.ConsecutiveFailures
		if !status.LastSuccess.IsZero() {
			health.LastSuccessAt = status.LastSuccess.UTC().Format(time.RFC3339)
		}
		if status.State == poller.StateRunning && !status.IsReady() {
			health.Status = "degraded"
		}
	}

	writeSuccess(ctx, w, http.StatusOK, health)
}

func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreboard")
	defer span.End()

	week, err := parseOptionalIntQuery(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season, err := parseOptionalIntQuery(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoreboardService.Scoreboard(ctx, week, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get scoreboard failed", "week", week, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreboardDTO{
		Week:   result.Week,
		Season: result.Season,
		Cached: result.Cached,
		Games:  gamesToDTO(result.Games),
	})
}

func (h *Handler) ListLiveGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveGames")
	defer span.End()

	games, err := h.scoreboardService.LiveGames(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list live games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTO(games))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	result, err := h.scoreboardService.Teams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsDTO{
		Cached: result.Cached,
		Teams:  result.Teams,
	})
}

func (h *Handler) GetGameSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameSummary")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))

	result, err := h.scoreboardService.GameSummary(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game summary failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameSummaryDTO{
		EventID: eventID,
		Cached:  result.Cached,
		Summary: result.Payload,
	})
}

func (h *Handler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentWeek")
	defer span.End()

	week, season := h.scoreboardService.CurrentWeek()
	writeSuccess(ctx, w, http.StatusOK, currentWeekDTO{Week: week, Season: season})
}
