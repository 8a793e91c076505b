package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/platform/logging"
)

func TestScoreboardService_Scoreboard_PrefersProvider(t *testing.T) {
	t.Parallel()

	provider := &stubScoreProvider{
		scoreboard: ScoreboardResult{
			Games:  []game.Game{{EventID: "g1", Week: 3, Season: 2025}},
			Week:   3,
			Season: 2025,
		},
	}
	service := NewScoreboardService(provider, newStubGameRepository(), 2025, logging.NewNop())

	result, err := service.Scoreboard(context.Background(), 3, 2025)
	if err != nil {
		t.Fatalf("scoreboard: %v", err)
	}
	if len(result.Games) != 1 || result.Games[0].EventID != "g1" {
		t.Fatalf("unexpected games: %+v", result.Games)
	}
	if result.Cached {
		t.Fatal("fresh provider data must not be flagged cached")
	}
}

func TestScoreboardService_Scoreboard_FallsBackToSnapshots(t *testing.T) {
	t.Parallel()

	provider := &stubScoreProvider{err: errors.New("upstream down")}
	stored := game.Game{EventID: "g1", Week: 3, Season: 2025, Status: game.StatusInProgress}
	service := NewScoreboardService(provider, newStubGameRepository(stored), 2025, logging.NewNop())

	result, err := service.Scoreboard(context.Background(), 3, 2025)
	if err != nil {
		t.Fatalf("expected snapshot fallback, got error: %v", err)
	}
	if !result.Cached {
		t.Fatal("snapshot fallback must be flagged cached")
	}
	if len(result.Games) != 1 || result.Games[0].EventID != "g1" {
		t.Fatalf("unexpected fallback games: %+v", result.Games)
	}
}

func TestScoreboardService_Scoreboard_ErrorWhenNoFallback(t *testing.T) {
	t.Parallel()

	provider := &stubScoreProvider{err: errors.New("upstream down")}
	service := NewScoreboardService(provider, newStubGameRepository(), 2025, logging.NewNop())

	if _, err := service.Scoreboard(context.Background(), 3, 2025); err == nil {
		t.Fatal("expected error when provider fails and no snapshots exist")
	}
}

func TestScoreboardService_Scoreboard_RejectsWeekPastSeason(t *testing.T) {
	t.Parallel()

	service := NewScoreboardService(&stubScoreProvider{}, newStubGameRepository(), 2025, logging.NewNop())

	if _, err := service.Scoreboard(context.Background(), 19, 2025); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestScoreboardService_LiveGames_FiltersInProgress(t *testing.T) {
	t.Parallel()

	provider := &stubScoreProvider{
		scoreboard: ScoreboardResult{
			Games: []game.Game{
				{EventID: "done", Status: game.StatusCompleted},
				{EventID: "live", Status: game.StatusInProgress},
				{EventID: "soon", Status: game.StatusScheduled},
			},
			Week:   3,
			Season: 2025,
		},
	}
	service := NewScoreboardService(provider, newStubGameRepository(), 2025, logging.NewNop())
	service.now = func() time.Time { return time.Date(2025, 9, 21, 18, 0, 0, 0, time.UTC) }

	live, err := service.LiveGames(context.Background())
	if err != nil {
		t.Fatalf("live games: %v", err)
	}
	if len(live) != 1 || live[0].EventID != "live" {
		t.Fatalf("unexpected live games: %+v", live)
	}
}

func TestScoreboardService_GameSummary_RequiresEventID(t *testing.T) {
	t.Parallel()

	service := NewScoreboardService(&stubScoreProvider{}, newStubGameRepository(), 2025, logging.NewNop())

	if _, err := service.GameSummary(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestScoreboardService_CurrentWeek(t *testing.T) {
	t.Parallel()

	service := NewScoreboardService(&stubScoreProvider{}, newStubGameRepository(), 2025, logging.NewNop())
	// Week 3 of the 2025 season: anchor is Thursday 2025-09-04.
	service.now = func() time.Time { return time.Date(2025, 9, 21, 18, 0, 0, 0, time.UTC) }

	week, season := service.CurrentWeek()
	if week != 3 || season != 2025 {
		t.Fatalf("expected week 3 season 2025, got week %d season %d", week, season)
	}
}
