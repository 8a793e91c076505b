package memory

import (
	"context"
	"sync"

	"github.com/wizix/pickem-pool/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.Profile
}

func NewUserRepository(profiles []user.Profile) *UserRepository {
	items := make(map[string]user.Profile, len(profiles))
	for _, p := range profiles {
		items[p.ID] = p
	}
	return &UserRepository{items: items}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[userID]
	return p, ok, nil
}

func (r *UserRepository) Update(_ context.Context, profile user.Profile) (user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[profile.ID] = profile
	return profile, nil
}
