package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/domain/pick"
	"github.com/wizix/pickem-pool/internal/domain/pool"
	"github.com/wizix/pickem-pool/internal/timeutil"
)

// PickSelection is one requested pick: a game and the team expected to win it.
type PickSelection struct {
	GameID       string
	PickedTeamID string
}

type PickService struct {
	pickRepo pick.Repository
	poolRepo pool.Repository
	gameRepo game.Repository
	now      func() time.Time
}

func NewPickService(pickRepo pick.Repository, poolRepo pool.Repository, gameRepo game.Repository) *PickService {
	return &PickService{
		pickRepo: pickRepo,
		poolRepo: poolRepo,
		gameRepo: gameRepo,
		now:      time.Now,
	}
}

// Submit replaces the caller's picks for a week. Resubmitting overwrites the
// previous set wholesale. Submission is rejected when any referenced game is
// unknown or has already kicked off.
func (s *PickService) Submit(ctx context.Context, userID, poolID string, week, season int, selections []PickSelection) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "PickService.Submit")
	defer span.End()

	userID = strings.TrimSpace(userID)
	poolID = strings.TrimSpace(poolID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if poolID == "" {
		return nil, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}
	if week < 1 || week > timeutil.WeeksPerSeason {
		return nil, fmt.Errorf("%w: week must be between 1 and %d", ErrInvalidInput, timeutil.WeeksPerSeason)
	}
	if season <= 0 {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: at least one pick is required", ErrInvalidInput)
	}

	if err := s.requireMembership(ctx, poolID, userID); err != nil {
		return nil, err
	}

	now := s.now()
	seen := make(map[string]struct{}, len(selections))
	picks := make([]pick.Pick, 0, len(selections))
	for _, sel := range selections {
		gameID := strings.TrimSpace(sel.GameID)
		teamID := strings.TrimSpace(sel.PickedTeamID)
		if gameID == "" || teamID == "" {
			return nil, fmt.Errorf("%w: every pick needs a game id and a team id", ErrInvalidInput)
		}
		if _, dup := seen[gameID]; dup {
			return nil, fmt.Errorf("%w: duplicate pick for game=%s", ErrInvalidInput, gameID)
		}
		seen[gameID] = struct{}{}

		g, found, err := s.gameRepo.GetByEventID(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("get game %s: %w", gameID, err)
		}
		if !found {
			return nil, fmt.Errorf("%w: unknown game=%s", ErrInvalidInput, gameID)
		}
		if g.HasStarted(now) {
			return nil, fmt.Errorf("%w: game=%s has already kicked off", ErrInvalidInput, gameID)
		}
		if teamID != g.Home.TeamID && teamID != g.Away.TeamID {
			return nil, fmt.Errorf("%w: team=%s is not playing in game=%s", ErrInvalidInput, teamID, gameID)
		}

		picks = append(picks, pick.Pick{
			UserID:       userID,
			PoolID:       poolID,
			GameID:       gameID,
			Week:         week,
			Season:       season,
			PickedTeamID: teamID,
			CreatedAt:    now,
		})
	}

	saved, err := s.pickRepo.ReplaceForWeek(ctx, userID, poolID, week, season, picks)
	if err != nil {
		return nil, fmt.Errorf("replace picks user=%s pool=%s week=%d: %w", userID, poolID, week, err)
	}
	return saved, nil
}

// ListOwn returns the caller's picks for a week.
func (s *PickService) ListOwn(ctx context.Context, userID, poolID string, week, season int) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "PickService.ListOwn")
	defer span.End()

	userID = strings.TrimSpace(userID)
	poolID = strings.TrimSpace(poolID)
	if userID == "" || poolID == "" {
		return nil, fmt.Errorf("%w: user id and pool id are required", ErrInvalidInput)
	}

	picks, err := s.pickRepo.ListByUserWeek(ctx, userID, poolID, week, season)
	if err != nil {
		return nil, fmt.Errorf("list picks user=%s pool=%s week=%d: %w", userID, poolID, week, err)
	}
	return picks, nil
}

// ListForPool returns every member's picks for a week. Picks for games that
// have not kicked off yet are hidden from everyone but their owner.
func (s *PickService) ListForPool(ctx context.Context, callerID, poolID string, week, season int) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "PickService.ListForPool")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	poolID = strings.TrimSpace(poolID)
	if callerID == "" || poolID == "" {
		return nil, fmt.Errorf("%w: user id and pool id are required", ErrInvalidInput)
	}

	if err := s.requireMembership(ctx, poolID, callerID); err != nil {
		return nil, err
	}

	picks, err := s.pickRepo.ListByPoolWeek(ctx, poolID, week, season)
	if err != nil {
		return nil, fmt.Errorf("list pool picks pool=%s week=%d: %w", poolID, week, err)
	}

	now := s.now()
	started := make(map[string]bool, len(picks))
	visible := make([]pick.Pick, 0, len(picks))
	for _, p := range picks {
		if p.UserID == callerID {
			visible = append(visible, p)
			continue
		}
		open, checked := started[p.GameID]
		if !checked {
			g, found, err := s.gameRepo.GetByEventID(ctx, p.GameID)
			if err != nil {
				return nil, fmt.Errorf("get game %s: %w", p.GameID, err)
			}
			open = found && g.HasStarted(now)
			started[p.GameID] = open
		}
		if open {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *PickService) requireMembership(ctx context.Context, poolID, userID string) error {
	_, exists, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}

	member, err := s.poolRepo.IsMember(ctx, poolID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return fmt.Errorf("%w: user=%s is not a member of pool=%s", ErrForbidden, userID, poolID)
	}
	return nil
}
