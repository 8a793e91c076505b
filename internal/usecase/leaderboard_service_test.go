package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/wizix/pickem-pool/internal/domain/pick"
	"github.com/wizix/pickem-pool/internal/domain/pool"
)

func resolvedPick(userID, gameID string, correct bool) pick.Pick {
	return pick.Pick{
		UserID:       userID,
		PoolID:       "pool-1",
		GameID:       gameID,
		Week:         1,
		Season:       2025,
		PickedTeamID: "1",
		Correct:      &correct,
	}
}

func TestLeaderboardService_Standings_OrdersByRecord(t *testing.T) {
	t.Parallel()

	poolRepo := newStubPoolRepository(pool.Pool{ID: "pool-1", Season: 2025, IsActive: true})
	poolRepo.addMember("pool-1", pool.Member{UserID: "user-a", DisplayName: "Alice"})
	poolRepo.addMember("pool-1", pool.Member{UserID: "user-b", DisplayName: "Bob"})
	poolRepo.addMember("pool-1", pool.Member{UserID: "user-c", DisplayName: "Cara"})
	poolRepo.addMember("pool-1", pool.Member{UserID: "user-d", DisplayName: "Dan"})

	pickRepo := &stubPickRepository{}
	pickRepo.seed(
		resolvedPick("user-a", "g1", true),
		resolvedPick("user-a", "g2", true),
		resolvedPick("user-a", "g3", false),
		resolvedPick("user-b", "g1", true),
		resolvedPick("user-b", "g2", true),
		resolvedPick("user-c", "g1", true),
		resolvedPick("user-c", "g2", false),
		// Unresolved picks never reach the board.
		pick.Pick{UserID: "user-c", PoolID: "pool-1", GameID: "g9", Season: 2025, PickedTeamID: "1"},
	)

	service := NewLeaderboardService(poolRepo, pickRepo)

	standings, err := service.Standings(context.Background(), "pool-1", 2025)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(standings) != 3 {
		t.Fatalf("expected one row per member with resolved picks, got %d rows", len(standings))
	}

	// Bob's 2-0 beats Alice's 2-1 on the losses tiebreak.
	if standings[0].UserID != "user-b" || standings[0].Rank != 1 {
		t.Fatalf("unexpected first row: %+v", standings[0])
	}
	if standings[1].UserID != "user-a" || standings[1].Rank != 2 {
		t.Fatalf("unexpected second row: %+v", standings[1])
	}
	if standings[2].UserID != "user-c" || standings[2].Wins != 1 || standings[2].Losses != 1 {
		t.Fatalf("unexpected third row: %+v", standings[2])
	}
	for _, row := range standings {
		if row.UserID == "user-d" {
			t.Fatalf("member without resolved picks must stay off the board: %+v", row)
		}
	}
}

func TestLeaderboardService_Standings_EmptyWithoutResolvedPicks(t *testing.T) {
	t.Parallel()

	poolRepo := newStubPoolRepository(pool.Pool{ID: "pool-1", Season: 2025, IsActive: true})
	poolRepo.addMember("pool-1", pool.Member{UserID: "user-a", DisplayName: "Alice"})
	poolRepo.addMember("pool-1", pool.Member{UserID: "user-b", DisplayName: "Bob"})

	pickRepo := &stubPickRepository{}
	// Submitted but unscored picks must not seed the board.
	pickRepo.seed(pick.Pick{UserID: "user-a", PoolID: "pool-1", GameID: "g1", Season: 2025, PickedTeamID: "1"})

	service := NewLeaderboardService(poolRepo, pickRepo)

	standings, err := service.Standings(context.Background(), "pool-1", 2025)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(standings) != 0 {
		t.Fatalf("expected an empty board before any pick resolves, got %d rows", len(standings))
	}
}

func TestLeaderboardService_Standings_TiedRecordsShareRank(t *testing.T) {
	t.Parallel()

	poolRepo := newStubPoolRepository(pool.Pool{ID: "pool-1", Season: 2025, IsActive: true})
	poolRepo.addMember("pool-1", pool.Member{UserID: "user-a", DisplayName: "Alice"})
	poolRepo.addMember("pool-1", pool.Member{UserID: "user-b", DisplayName: "Bob"})
	poolRepo.addMember("pool-1", pool.Member{UserID: "user-c", DisplayName: "Cara"})

	pickRepo := &stubPickRepository{}
	pickRepo.seed(
		resolvedPick("user-a", "g1", true),
		resolvedPick("user-b", "g1", true),
		resolvedPick("user-c", "g1", false),
	)

	service := NewLeaderboardService(poolRepo, pickRepo)

	standings, err := service.Standings(context.Background(), "pool-1", 2025)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	if standings[0].Rank != 1 || standings[1].Rank != 1 {
		t.Fatalf("tied 1-0 records must share rank 1, got %d and %d", standings[0].Rank, standings[1].Rank)
	}
	if standings[0].DisplayName != "Alice" {
		t.Fatalf("ties order by display name, got %s first", standings[0].DisplayName)
	}
	if standings[2].Rank != 3 {
		t.Fatalf("rank after a tie must account for both rows, got %d", standings[2].Rank)
	}
}

func TestLeaderboardService_Standings_UnknownPool(t *testing.T) {
	t.Parallel()

	service := NewLeaderboardService(newStubPoolRepository(), &stubPickRepository{})

	_, err := service.Standings(context.Background(), "missing", 2025)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
