package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/domain/pick"
	"github.com/wizix/pickem-pool/internal/domain/pool"
	"github.com/wizix/pickem-pool/internal/platform/logging"
	"github.com/wizix/pickem-pool/internal/timeutil"
)

const defaultResultWorkers = 4

// PickResult is one pick's newly determined correctness.
type PickResult struct {
	PickID  string
	UserID  string
	PoolID  string
	GameID  string
	Correct bool
}

// RecalculationResult reports what a manual week recalculation changed.
type RecalculationResult struct {
	PicksSeen int `json:"picksSeen"`
	Resolved  int `json:"resolved"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	Skipped   int `json:"skipped"`
}

// MatchPicks matches picks against game outcomes. A pick gains a result only
// when its game appears in games, is completed, and resolves to a winner;
// picks already carrying a result are skipped, so re-running over the same
// inputs changes nothing.
func MatchPicks(picks []pick.Pick, games []game.Game) []PickResult {
	winners := make(map[string]string, len(games))
	for _, g := range games {
		if teamID, ok := game.ResolveWinner(g); ok {
			winners[g.EventID] = teamID
		}
	}

	results := make([]PickResult, 0, len(picks))
	for _, p := range picks {
		if p.Resolved() {
			continue
		}
		winner, ok := winners[p.GameID]
		if !ok {
			continue
		}
		results = append(results, PickResult{
			PickID:  p.ID,
			UserID:  p.UserID,
			PoolID:  p.PoolID,
			GameID:  p.GameID,
			Correct: p.PickedTeamID == winner,
		})
	}
	return results
}

// ResultService persists pick correctness when games complete.
type ResultService struct {
	pickRepo pick.Repository
	poolRepo pool.Repository
	gameRepo game.Repository
	workers  int
	logger   *logging.Logger
}

func NewResultService(pickRepo pick.Repository, poolRepo pool.Repository, gameRepo game.Repository, workers int, logger *logging.Logger) *ResultService {
	if workers < 1 {
		workers = defaultResultWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultService{
		pickRepo: pickRepo,
		poolRepo: poolRepo,
		gameRepo: gameRepo,
		workers:  workers,
		logger:   logger,
	}
}

// ApplyResults resolves and persists pick correctness for the given games,
// one worker task per game. It returns the results that were persisted;
// per-game failures are logged and skipped so one bad game cannot stall the
// rest of a poll cycle.
func (s *ResultService) ApplyResults(ctx context.Context, games []game.Game) ([]PickResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ResultService.ApplyResults")
	defer span.End()

	targets := make([]game.Game, 0, len(games))
	for _, g := range games {
		if _, ok := game.ResolveWinner(g); ok {
			targets = append(targets, g)
		}
	}
	if len(targets) == 0 {
		return nil, nil
	}

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		mu        sync.Mutex
		persisted []PickResult
		failed    atomic.Int32
		workers   sync.WaitGroup
	)
	for _, g := range targets {
		g := g
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			results, applyErr := s.applyGame(ctx, g)
			if applyErr != nil {
				failed.Add(1)
				s.logger.ErrorContext(ctx, "apply game results failed", "event_id", g.EventID, "error", applyErr)
				return
			}
			if len(results) == 0 {
				return
			}
			mu.Lock()
			persisted = append(persisted, results...)
			mu.Unlock()
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit game to worker pool: %w", err)
		}
	}
	workers.Wait()

	if n := failed.Load(); n > 0 {
		s.logger.WarnContext(ctx, "some games failed result application", "failed", n, "total", len(targets))
	}
	return persisted, nil
}

func (s *ResultService) applyGame(ctx context.Context, g game.Game) ([]PickResult, error) {
	unresolved, err := s.pickRepo.ListUnresolvedByGame(ctx, g.EventID)
	if err != nil {
		return nil, fmt.Errorf("list unresolved picks: %w", err)
	}
	if len(unresolved) == 0 {
		return nil, nil
	}

	results := MatchPicks(unresolved, []game.Game{g})
	for _, r := range results {
		if err := s.pickRepo.SetResult(ctx, r.PickID, r.Correct); err != nil {
			return nil, fmt.Errorf("set result pick=%s: %w", r.PickID, err)
		}
	}
	return results, nil
}

// RecalculateWeek re-runs pick matching for one pool and week against the
// stored game snapshots. Safe to repeat; already-resolved picks are counted
// as skipped.
func (s *ResultService) RecalculateWeek(ctx context.Context, poolID string, week, season int) (RecalculationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ResultService.RecalculateWeek")
	defer span.End()

	poolID = strings.TrimSpace(poolID)
	if poolID == "" {
		return RecalculationResult{}, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}
	if week < 1 || week > timeutil.WeeksPerSeason {
		return RecalculationResult{}, fmt.Errorf("%w: week must be between 1 and %d", ErrInvalidInput, timeutil.WeeksPerSeason)
	}

	p, exists, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return RecalculationResult{}, fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return RecalculationResult{}, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}
	if season <= 0 {
		season = p.Season
	}

	picks, err := s.pickRepo.ListByPoolWeek(ctx, poolID, week, season)
	if err != nil {
		return RecalculationResult{}, fmt.Errorf("list pool picks: %w", err)
	}

	games, err := s.gameRepo.ListByWeek(ctx, week, season)
	if err != nil {
		return RecalculationResult{}, fmt.Errorf("list games week=%d season=%d: %w", week, season, err)
	}

	result := RecalculationResult{PicksSeen: len(picks)}
	matched := MatchPicks(picks, games)
	for _, r := range matched {
		if err := s.pickRepo.SetResult(ctx, r.PickID, r.Correct); err != nil {
			return result, fmt.Errorf("set result pick=%s: %w", r.PickID, err)
		}
		result.Resolved++
		if r.Correct {
			result.Wins++
		} else {
			result.Losses++
		}
	}
	result.Skipped = result.PicksSeen - result.Resolved
	return result, nil
}
