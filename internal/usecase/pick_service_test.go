package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/domain/pick"
	"github.com/wizix/pickem-pool/internal/domain/pool"
)

func upcomingGame(eventID string, kickoff time.Time) game.Game {
	return game.Game{
		EventID: eventID,
		Week:    1,
		Season:  2025,
		Status:  game.StatusScheduled,
		Home:    game.Side{TeamID: "1"},
		Away:    game.Side{TeamID: "12"},
		Kickoff: kickoff,
	}
}

func memberPoolRepo(poolID string, userIDs ...string) *stubPoolRepository {
	repo := newStubPoolRepository(pool.Pool{ID: poolID, Name: "Office Pool", Season: 2025, IsActive: true})
	for _, id := range userIDs {
		repo.addMember(poolID, pool.Member{UserID: id, DisplayName: id})
	}
	return repo
}

func TestPickService_Submit_ReplacesPreviousWeekPicks(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC)
	kickoff := now.Add(48 * time.Hour)

	pickRepo := &stubPickRepository{}
	poolRepo := memberPoolRepo("pool-1", "user-1")
	gameRepo := newStubGameRepository(upcomingGame("g1", kickoff), upcomingGame("g2", kickoff))

	service := NewPickService(pickRepo, poolRepo, gameRepo)
	service.now = func() time.Time { return now }

	first, err := service.Submit(context.Background(), "user-1", "pool-1", 1, 2025, []PickSelection{
		{GameID: "g1", PickedTeamID: "1"},
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 saved pick, got %d", len(first))
	}

	second, err := service.Submit(context.Background(), "user-1", "pool-1", 1, 2025, []PickSelection{
		{GameID: "g1", PickedTeamID: "12"},
		{GameID: "g2", PickedTeamID: "1"},
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 saved picks, got %d", len(second))
	}

	stored, err := pickRepo.ListByUserWeek(context.Background(), "user-1", "pool-1", 1, 2025)
	if err != nil {
		t.Fatalf("list picks: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("resubmit must replace, not append: got %d picks", len(stored))
	}
	for _, p := range stored {
		if p.GameID == "g1" && p.PickedTeamID != "12" {
			t.Fatalf("expected g1 pick replaced with team 12, got %s", p.PickedTeamID)
		}
	}
}

func TestPickService_Submit_RejectsStartedGame(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 21, 18, 0, 0, 0, time.UTC)

	pickRepo := &stubPickRepository{}
	poolRepo := memberPoolRepo("pool-1", "user-1")
	gameRepo := newStubGameRepository(upcomingGame("g1", now.Add(-time.Hour)))

	service := NewPickService(pickRepo, poolRepo, gameRepo)
	service.now = func() time.Time { return now }

	_, err := service.Submit(context.Background(), "user-1", "pool-1", 1, 2025, []PickSelection{
		{GameID: "g1", PickedTeamID: "1"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for locked game, got %v", err)
	}
}

func TestPickService_Submit_RejectsNonMember(t *testing.T) {
	t.Parallel()

	service := NewPickService(&stubPickRepository{}, memberPoolRepo("pool-1", "someone-else"), newStubGameRepository())

	_, err := service.Submit(context.Background(), "user-1", "pool-1", 1, 2025, []PickSelection{
		{GameID: "g1", PickedTeamID: "1"},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPickService_Submit_RejectsDuplicateGame(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC)
	gameRepo := newStubGameRepository(upcomingGame("g1", now.Add(time.Hour)))

	service := NewPickService(&stubPickRepository{}, memberPoolRepo("pool-1", "user-1"), gameRepo)
	service.now = func() time.Time { return now }

	_, err := service.Submit(context.Background(), "user-1", "pool-1", 1, 2025, []PickSelection{
		{GameID: "g1", PickedTeamID: "1"},
		{GameID: "g1", PickedTeamID: "12"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate game, got %v", err)
	}
}

func TestPickService_Submit_RejectsUnknownGame(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC)
	gameRepo := newStubGameRepository(upcomingGame("g1", now.Add(time.Hour)))

	service := NewPickService(&stubPickRepository{}, memberPoolRepo("pool-1", "user-1"), gameRepo)
	service.now = func() time.Time { return now }

	// An id the sync loop has never seen must fail validation here instead of
	// bouncing off the picks foreign key as an internal error.
	_, err := service.Submit(context.Background(), "user-1", "pool-1", 1, 2025, []PickSelection{
		{GameID: "g1", PickedTeamID: "1"},
		{GameID: "no-such-game", PickedTeamID: "1"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown game, got %v", err)
	}
}

func TestPickService_Submit_RejectsTeamNotInGame(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC)
	gameRepo := newStubGameRepository(upcomingGame("g1", now.Add(time.Hour)))

	service := NewPickService(&stubPickRepository{}, memberPoolRepo("pool-1", "user-1"), gameRepo)
	service.now = func() time.Time { return now }

	_, err := service.Submit(context.Background(), "user-1", "pool-1", 1, 2025, []PickSelection{
		{GameID: "g1", PickedTeamID: "99"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for foreign team, got %v", err)
	}
}

func TestPickService_Submit_RejectsUnknownPool(t *testing.T) {
	t.Parallel()

	service := NewPickService(&stubPickRepository{}, newStubPoolRepository(), newStubGameRepository())

	_, err := service.Submit(context.Background(), "user-1", "missing", 1, 2025, []PickSelection{
		{GameID: "g1", PickedTeamID: "1"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPickService_ListForPool_HidesUnstartedOpponentPicks(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 21, 18, 0, 0, 0, time.UTC)

	pickRepo := &stubPickRepository{}
	pickRepo.seed(
		pick.Pick{UserID: "user-1", PoolID: "pool-1", GameID: "started", Week: 3, Season: 2025, PickedTeamID: "1"},
		pick.Pick{UserID: "user-1", PoolID: "pool-1", GameID: "future", Week: 3, Season: 2025, PickedTeamID: "12"},
		pick.Pick{UserID: "user-2", PoolID: "pool-1", GameID: "started", Week: 3, Season: 2025, PickedTeamID: "12"},
		pick.Pick{UserID: "user-2", PoolID: "pool-1", GameID: "future", Week: 3, Season: 2025, PickedTeamID: "1"},
	)

	started := upcomingGame("started", now.Add(-time.Hour))
	started.Week = 3
	future := upcomingGame("future", now.Add(time.Hour))
	future.Week = 3

	service := NewPickService(pickRepo, memberPoolRepo("pool-1", "user-1", "user-2"), newStubGameRepository(started, future))
	service.now = func() time.Time { return now }

	visible, err := service.ListForPool(context.Background(), "user-1", "pool-1", 3, 2025)
	if err != nil {
		t.Fatalf("list pool picks: %v", err)
	}

	if len(visible) != 3 {
		t.Fatalf("expected 3 visible picks (own 2 + opponent started), got %d", len(visible))
	}
	for _, p := range visible {
		if p.UserID == "user-2" && p.GameID == "future" {
			t.Fatal("opponent pick for unstarted game must stay hidden")
		}
	}
}
