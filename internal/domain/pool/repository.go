package pool

import "context"

type Repository interface {
	Create(ctx context.Context, p Pool) (Pool, error)
	GetByID(ctx context.Context, poolID string) (Pool, bool, error)
	ListActive(ctx context.Context) ([]Pool, error)
	ListByUser(ctx context.Context, userID string) ([]Pool, error)

	Join(ctx context.Context, poolID, userID string) error
	Leave(ctx context.Context, poolID, userID string) error
	IsMember(ctx context.Context, poolID, userID string) (bool, error)
	ListMembers(ctx context.Context, poolID string) ([]Member, error)
}
