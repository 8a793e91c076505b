package usecase

import (
	"context"
	"fmt"
	"time"

	concpool "github.com/sourcegraph/conc/pool"
	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/platform/logging"
	"github.com/wizix/pickem-pool/internal/timeutil"
)

const upsertConcurrency = 8

// EventPublisher fans sync-cycle changes out to connected clients.
// Implementations must tolerate publish failures; fanout is best effort.
type EventPublisher interface {
	PublishGameUpdates(ctx context.Context, games []game.Game) error
	PublishPickResults(ctx context.Context, results []PickResult) error
}

// SyncService runs one poll cycle: fetch the current week's scoreboard,
// persist game snapshots, score picks for games that just completed, and
// publish the changes.
type SyncService struct {
	provider      ScoreProvider
	gameRepo      game.Repository
	results       *ResultService
	publisher     EventPublisher
	currentSeason int
	logger        *logging.Logger
	now           func() time.Time
}

func NewSyncService(provider ScoreProvider, gameRepo game.Repository, results *ResultService, publisher EventPublisher, currentSeason int, logger *logging.Logger) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		provider:      provider,
		gameRepo:      gameRepo,
		results:       results,
		publisher:     publisher,
		currentSeason: currentSeason,
		logger:        logger,
		now:           time.Now,
	}
}

// RunCycle executes one sync cycle for the current week. A provider failure
// aborts the cycle without touching stored state.
func (s *SyncService) RunCycle(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "SyncService.RunCycle")
	defer span.End()

	started := s.now()
	week := timeutil.CurrentWeek(started, s.currentSeason)

	scoreboard, err := s.provider.FetchScoreboard(ctx, week, s.currentSeason, 0)
	if err != nil {
		return fmt.Errorf("fetch scoreboard week=%d: %w", week, err)
	}
	if len(scoreboard.Games) == 0 {
		s.logger.DebugContext(ctx, "sync cycle found no games", "week", week, "season", scoreboard.Season)
		return nil
	}

	previous, err := s.gameRepo.ListByWeek(ctx, scoreboard.Week, scoreboard.Season)
	if err != nil {
		return fmt.Errorf("list stored games week=%d: %w", scoreboard.Week, err)
	}
	wasCompleted := make(map[string]bool, len(previous))
	for _, g := range previous {
		wasCompleted[g.EventID] = g.IsCompleted()
	}

	upserts := concpool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(upsertConcurrency)
	for _, g := range scoreboard.Games {
		g := g
		upserts.Go(func(ctx context.Context) error {
			if err := s.gameRepo.Upsert(ctx, g); err != nil {
				return fmt.Errorf("upsert game event=%s: %w", g.EventID, err)
			}
			return nil
		})
	}
	if err := upserts.Wait(); err != nil {
		return fmt.Errorf("persist game snapshots: %w", err)
	}

	newlyCompleted := make([]game.Game, 0, len(scoreboard.Games))
	for _, g := range scoreboard.Games {
		if g.IsCompleted() && !wasCompleted[g.EventID] {
			newlyCompleted = append(newlyCompleted, g)
		}
	}

	var results []PickResult
	if len(newlyCompleted) > 0 {
		results, err = s.results.ApplyResults(ctx, newlyCompleted)
		if err != nil {
			return fmt.Errorf("apply results: %w", err)
		}
	}

	s.publish(ctx, scoreboard.Games, results)

	s.logger.InfoContext(ctx, "sync cycle completed",
		"week", scoreboard.Week,
		"season", scoreboard.Season,
		"games", len(scoreboard.Games),
		"newly_completed", len(newlyCompleted),
		"picks_resolved", len(results),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}

func (s *SyncService) publish(ctx context.Context, games []game.Game, results []PickResult) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishGameUpdates(ctx, games); err != nil {
		s.logger.WarnContext(ctx, "publish game updates failed", "error", err)
	}
	if len(results) == 0 {
		return
	}
	if err := s.publisher.PublishPickResults(ctx, results); err != nil {
		s.logger.WarnContext(ctx, "publish pick results failed", "error", err)
	}
}
