package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, userID string) (Profile, bool, error)
	Update(ctx context.Context, profile Profile) (Profile, error)
}
