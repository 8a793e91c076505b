package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/platform/logging"
	"github.com/wizix/pickem-pool/internal/timeutil"
)

// ScoreboardService serves scoreboard reads. Provider failures fall back to
// the last stored game snapshots so a flaky upstream degrades to slightly
// stale scores instead of an empty page.
type ScoreboardService struct {
	provider      ScoreProvider
	gameRepo      game.Repository
	currentSeason int
	logger        *logging.Logger
	now           func() time.Time
}

func NewScoreboardService(provider ScoreProvider, gameRepo game.Repository, currentSeason int, logger *logging.Logger) *ScoreboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoreboardService{
		provider:      provider,
		gameRepo:      gameRepo,
		currentSeason: currentSeason,
		logger:        logger,
		now:           time.Now,
	}
}

// Scoreboard returns games for the given week. week <= 0 means the current
// week, season <= 0 the configured season.
func (s *ScoreboardService) Scoreboard(ctx context.Context, week, season int) (ScoreboardResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoreboardService.Scoreboard")
	defer span.End()

	if season <= 0 {
		season = s.currentSeason
	}
	if week <= 0 {
		week = timeutil.CurrentWeek(s.now(), season)
	}
	if week > timeutil.WeeksPerSeason {
		return ScoreboardResult{}, fmt.Errorf("%w: week must be between 1 and %d", ErrInvalidInput, timeutil.WeeksPerSeason)
	}

	result, err := s.provider.FetchScoreboard(ctx, week, season, 0)
	if err == nil {
		return result, nil
	}

	s.logger.WarnContext(ctx, "scoreboard fetch failed, serving stored snapshots", "week", week, "season", season, "error", err)
	stored, repoErr := s.gameRepo.ListByWeek(ctx, week, season)
	if repoErr != nil || len(stored) == 0 {
		return ScoreboardResult{}, fmt.Errorf("fetch scoreboard week=%d season=%d: %w", week, season, err)
	}

	return ScoreboardResult{Games: stored, Week: week, Season: season, Cached: true}, nil
}

// LiveGames filters the current-week scoreboard down to in-progress games.
func (s *ScoreboardService) LiveGames(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoreboardService.LiveGames")
	defer span.End()

	result, err := s.Scoreboard(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	live := make([]game.Game, 0, len(result.Games))
	for _, g := range result.Games {
		if g.IsInProgress() {
			live = append(live, g)
		}
	}
	return live, nil
}

func (s *ScoreboardService) Teams(ctx context.Context) (TeamsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoreboardService.Teams")
	defer span.End()

	result, err := s.provider.FetchTeams(ctx)
	if err != nil {
		return TeamsResult{}, fmt.Errorf("fetch teams: %w", err)
	}
	return result, nil
}

func (s *ScoreboardService) GameSummary(ctx context.Context, eventID string) (SummaryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoreboardService.GameSummary")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return SummaryResult{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	result, err := s.provider.FetchGameSummary(ctx, eventID)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("fetch game summary event=%s: %w", eventID, err)
	}
	return result, nil
}

// CurrentWeek exposes the week calculation for the API surface.
func (s *ScoreboardService) CurrentWeek() (week, season int) {
	season = s.currentSeason
	return timeutil.CurrentWeek(s.now(), season), season
}
