package game

import "context"

// Repository persists the poll-cycle game snapshots, keyed by provider event id.
type Repository interface {
	Upsert(ctx context.Context, g Game) error
	GetByEventID(ctx context.Context, eventID string) (Game, bool, error)
	ListByWeek(ctx context.Context, week, season int) ([]Game, error)
}
