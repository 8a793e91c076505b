package pick

import "context"

type Repository interface {
	// ReplaceForWeek deletes any existing picks for (user, pool, week, season)
	// and inserts the given ones in a single transaction, so at most one pick
	// exists per (user, pool, game).
	ReplaceForWeek(ctx context.Context, userID, poolID string, week, season int, picks []Pick) ([]Pick, error)

	ListByUserWeek(ctx context.Context, userID, poolID string, week, season int) ([]Pick, error)
	ListByPoolWeek(ctx context.Context, poolID string, week, season int) ([]Pick, error)

	// ListResolvedByPoolSeason returns every pick with known correctness for a
	// pool and season, the input of leaderboard aggregation.
	ListResolvedByPoolSeason(ctx context.Context, poolID string, season int) ([]Pick, error)

	// ListUnresolvedByGame returns picks across all pools that reference the
	// game and have no correctness yet.
	ListUnresolvedByGame(ctx context.Context, gameID string) ([]Pick, error)

	SetResult(ctx context.Context, pickID string, correct bool) error
}
