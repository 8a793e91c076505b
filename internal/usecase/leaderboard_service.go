package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wizix/pickem-pool/internal/domain/pick"
	"github.com/wizix/pickem-pool/internal/domain/pool"
	"github.com/wizix/pickem-pool/internal/domain/standing"
)

type LeaderboardService struct {
	poolRepo pool.Repository
	pickRepo pick.Repository
}

func NewLeaderboardService(poolRepo pool.Repository, pickRepo pick.Repository) *LeaderboardService {
	return &LeaderboardService{
		poolRepo: poolRepo,
		pickRepo: pickRepo,
	}
}

// Standings folds a pool's resolved picks into per-user win/loss records.
// Only members with at least one resolved pick get a row; a pool with nothing
// scored yet has an empty board. Ordering is wins descending, then losses
// ascending, then display name; users with identical records share a rank.
func (s *LeaderboardService) Standings(ctx context.Context, poolID string, season int) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.Standings")
	defer span.End()

	poolID = strings.TrimSpace(poolID)
	if poolID == "" {
		return nil, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}

	p, exists, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}
	if season <= 0 {
		season = p.Season
	}

	members, err := s.poolRepo.ListMembers(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("list pool members: %w", err)
	}

	resolved, err := s.pickRepo.ListResolvedByPoolSeason(ctx, poolID, season)
	if err != nil {
		return nil, fmt.Errorf("list resolved picks pool=%s season=%d: %w", poolID, season, err)
	}

	byUser := make(map[string]*standing.Standing, len(members))
	for _, m := range members {
		byUser[m.UserID] = &standing.Standing{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			AvatarURL:   m.AvatarURL,
		}
	}

	order := make([]*standing.Standing, 0, len(members))
	for _, item := range resolved {
		row, ok := byUser[item.UserID]
		if !ok {
			// A user who left the pool keeps their scored picks out of the
			// board.
			continue
		}
		if row.Total == 0 {
			// First resolved pick puts the member on the board.
			order = append(order, row)
		}
		row.Total++
		if item.Correct != nil && *item.Correct {
			row.Wins++
		} else {
			row.Losses++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Wins != order[j].Wins {
			return order[i].Wins > order[j].Wins
		}
		if order[i].Losses != order[j].Losses {
			return order[i].Losses < order[j].Losses
		}
		return order[i].DisplayName < order[j].DisplayName
	})

	out := make([]standing.Standing, 0, len(order))
	for i, row := range order {
		row.Rank = i + 1
		if i > 0 {
			prev := order[i-1]
			if prev.Wins == row.Wins && prev.Losses == row.Losses {
				row.Rank = prev.Rank
			}
		}
		out = append(out, *row)
	}
	return out, nil
}
