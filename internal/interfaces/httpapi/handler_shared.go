package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/domain/pick"
	"github.com/wizix/pickem-pool/internal/domain/pool"
	"github.com/wizix/pickem-pool/internal/domain/standing"
	"github.com/wizix/pickem-pool/internal/domain/user"
	"github.com/wizix/pickem-pool/internal/platform/logging"
	"github.com/wizix/pickem-pool/internal/poller"
	"github.com/wizix/pickem-pool/internal/realtime"
	"github.com/wizix/pickem-pool/internal/usecase"
)

// PollerStatus exposes the background poller's health to the API.
type PollerStatus interface {
	Status() poller.Status
}

type Handler struct {
	scoreboardService  *usecase.ScoreboardService
	pickService        *usecase.PickService
	poolService        *usecase.PoolService
	leaderboardService *usecase.LeaderboardService
	userService        *usecase.UserService
	resultService      *usecase.ResultService
	syncService        *usecase.SyncService
	pollerStatus       PollerStatus
	hub                *realtime.Hub
	logger             *logging.Logger
	validator          *validator.Validate
	wsOrigins          originPolicy
}

func NewHandler(
	scoreboardService *usecase.ScoreboardService,
	pickService *usecase.PickService,
	poolService *usecase.PoolService,
	leaderboardService *usecase.LeaderboardService,
	userService *usecase.UserService,
	resultService *usecase.ResultService,
	syncService *usecase.SyncService,
	pollerStatus PollerStatus,
	hub *realtime.Hub,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scoreboardService:  scoreboardService,
		pickService:        pickService,
		poolService:        poolService,
		leaderboardService: leaderboardService,
		userService:        userService,
		resultService:      resultService,
		syncService:        syncService,
		pollerStatus:       pollerStatus,
		hub:                hub,
		logger:             logger,
		validator:          validator.New(),
		wsOrigins:          newOriginPolicy(nil),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type createPoolRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Season      int    `json:"season" validate:"omitempty,gt=0"`
}

type submitPicksRequest struct {
	Week   int                    `json:"week" validate:"required,gt=0"`
	Season int                    `json:"season" validate:"omitempty,gt=0"`
	Picks  []pickSelectionRequest `json:"picks" validate:"required,min=1,dive"`
}

type pickSelectionRequest struct {
	GameID string `json:"game_id" validate:"required"`
	TeamID string `json:"team_id" validate:"required"`
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=80"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,max=300"`
}

type recalculateWeekRequest struct {
	PoolID string `json:"pool_id" validate:"required"`
	Week   int    `json:"week" validate:"required,gt=0"`
	Season int    `json:"season" validate:"omitempty,gt=0"`
}

type gameSideDTO struct {
	TeamID       string `json:"teamId"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Abbreviation string `json:"abbreviation"`
	Logo         string `json:"logo,omitempty"`
	Score        int    `json:"score"`
	Winner       bool   `json:"winner"`
}

type gameDTO struct {
	EventID      string      `json:"eventId"`
	Name         string      `json:"name"`
	ShortName    string      `json:"shortName"`
	Week         int         `json:"week"`
	Season       int         `json:"season"`
	Status       string      `json:"status"`
	StatusDetail string      `json:"statusDetail,omitempty"`
	Home         gameSideDTO `json:"home"`
	Away         gameSideDTO `json:"away"`
	KickoffAt    string      `json:"kickoffAt,omitempty"`
}

type scoreboardDTO struct {
	Week   int       `json:"week"`
	Season int       `json:"season"`
	Cached bool      `json:"cached"`
	Games  []gameDTO `json:"games"`
}

type teamsDTO struct {
	Cached bool                   `json:"cached"`
	Teams  []usecase.ProviderTeam `json:"teams"`
}

type gameSummaryDTO struct {
	EventID string          `json:"eventId"`
	Cached  bool            `json:"cached"`
	Summary json.RawMessage `json:"summary"`
}

type currentWeekDTO struct {
	Week   int `json:"week"`
	Season int `json:"season"`
}

type poolDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Season      int    `json:"season"`
	CreatedBy   string `json:"createdBy"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
}

type memberDTO struct {
	PoolID      string `json:"poolId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Paid        bool   `json:"paid"`
	JoinedAt    string `json:"joinedAt"`
}

type pickDTO struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	PoolID       string `json:"poolId"`
	GameID       string `json:"gameId"`
	Week         int    `json:"week"`
	Season       int    `json:"season"`
	PickedTeamID string `json:"pickedTeamId"`
	Correct      *bool  `json:"correct,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

type standingDTO struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Rank        int    `json:"rank"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Total       int    `json:"total"`
}

type profileDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

type healthDTO struct {
	Status              string `json:"status"`
	PollerState         string `json:"pollerState,omitempty"`
	ConsecutiveFailures int    `json:"consecutiveFailures,omitempty"`
	LastSuccessAt       string `json:"lastSuccessAt,omitempty"`
	ConnectedClients    int    `json:"connectedClients"`
}

func gameSideToDTO(v game.Side) gameSideDTO {
	return gameSideDTO{
		TeamID:       v.TeamID,
		Name:         v.Name,
		DisplayName:  v.DisplayName,
		Abbreviation: v.Abbreviation,
		Logo:         v.Logo,
		Score:        v.Score,
		Winner:       v.Winner,
	}
}

func gameToDTO(v game.Game) gameDTO {
	return gameDTO{
		EventID:      v.EventID,
		Name:         v.Name,
		ShortName:    v.ShortName,
		Week:         v.Week,
		Season:       v.Season,
		Status:       game.NormalizeStatus(v.Status),
		StatusDetail: v.StatusDetail,
		Home:         gameSideToDTO(v.Home),
		Away:         gameSideToDTO(v.Away),
		KickoffAt:    formatOptionalTime(v.Kickoff),
	}
}

func gamesToDTO(games []game.Game) []gameDTO {
	out := make([]gameDTO, 0, len(games))
	for _, g := range games {
		out = append(out, gameToDTO(g))
	}
	return out
}

func poolToDTO(v pool.Pool) poolDTO {
	return poolDTO{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Season:      v.Season,
		CreatedBy:   v.CreatedBy,
		IsActive:    v.IsActive,
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func memberToDTO(v pool.Member) memberDTO {
	return memberDTO{
		PoolID:      v.PoolID,
		UserID:      v.UserID,
		DisplayName: v.DisplayName,
		AvatarURL:   v.AvatarURL,
		Paid:        v.Paid,
		JoinedAt:    v.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func pickToDTO(v pick.Pick) pickDTO {
	return pickDTO{
		ID:           v.ID,
		UserID:       v.UserID,
		PoolID:       v.PoolID,
		GameID:       v.GameID,
		Week:         v.Week,
		Season:       v.Season,
		PickedTeamID: v.PickedTeamID,
		Correct:      v.Correct,
		CreatedAt:    v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func picksToDTO(picks []pick.Pick) []pickDTO {
	out := make([]pickDTO, 0, len(picks))
	for _, p := range picks {
		out = append(out, pickToDTO(p))
	}
	return out
}

func standingToDTO(v standing.Standing) standingDTO {
	return standingDTO{
		UserID:      v.UserID,
		DisplayName: v.DisplayName,
		AvatarURL:   v.AvatarURL,
		Rank:        v.Rank,
		Wins:        v.Wins,
		Losses:      v.Losses,
		Total:       v.Total,
	}
}

func profileToDTO(v user.Profile) profileDTO {
	return profileDTO{
		ID:          v.ID,
		Email:       v.Email,
		DisplayName: v.DisplayName,
		AvatarURL:   v.AvatarURL,
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatOptionalTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

// parseOptionalIntQuery reads an optional integer query parameter. A missing
// or blank value yields zero, letting the service apply its defaults.
func parseOptionalIntQuery(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
