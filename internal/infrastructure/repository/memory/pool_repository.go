package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wizix/pickem-pool/internal/domain/pool"
)

type PoolRepository struct {
	mu       sync.RWMutex
	pools    map[string]pool.Pool
	members  map[string][]pool.Member
	profiles *UserRepository
	nextID   int
}

// NewPoolRepository builds the dev/test pool store. profiles may be nil; when
// set, member rows carry display data from it.
func NewPoolRepository(pools []pool.Pool, profiles *UserRepository) *PoolRepository {
	items := make(map[string]pool.Pool, len(pools))
	for _, p := range pools {
		items[p.ID] = p
	}
	return &PoolRepository{
		pools:    items,
		members:  make(map[string][]pool.Member),
		profiles: profiles,
	}
}

func (r *PoolRepository) Create(_ context.Context, p pool.Pool) (pool.Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.ID = fmt.Sprintf("pool-%d", r.nextID)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.pools[p.ID] = p
	return p, nil
}

func (r *PoolRepository) GetByID(_ context.Context, poolID string) (pool.Pool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pools[poolID]
	return p, ok, nil
}

func (r *PoolRepository) ListActive(_ context.Context) ([]pool.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pool.Pool
	for _, p := range r.pools {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sortPools(out)
	return out, nil
}

func (r *PoolRepository) ListByUser(_ context.Context, userID string) ([]pool.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pool.Pool
	for poolID, members := range r.members {
		for _, m := range members {
			if m.UserID == userID {
				out = append(out, r.pools[poolID])
				break
			}
		}
	}
	sortPools(out)
	return out, nil
}

func (r *PoolRepository) Join(ctx context.Context, poolID, userID string) error {
	member := pool.Member{PoolID: poolID, UserID: userID, JoinedAt: time.Now().UTC()}
	if r.profiles != nil {
		if profile, ok, _ := r.profiles.GetByID(ctx, userID); ok {
			member.DisplayName = profile.DisplayName
			member.AvatarURL = profile.AvatarURL
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members[poolID] {
		if m.UserID == userID {
			return nil
		}
	}
	r.members[poolID] = append(r.members[poolID], member)
	return nil
}

func (r *PoolRepository) Leave(_ context.Context, poolID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.members[poolID]
	kept := members[:0]
	for _, m := range members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	r.members[poolID] = kept
	return nil
}

func (r *PoolRepository) IsMember(_ context.Context, poolID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members[poolID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *PoolRepository) ListMembers(_ context.Context, poolID string) ([]pool.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pool.Member(nil), r.members[poolID]...), nil
}

func sortPools(pools []pool.Pool) {
	sort.Slice(pools, func(i, j int) bool {
		if !pools[i].CreatedAt.Equal(pools[j].CreatedAt) {
			return pools[i].CreatedAt.After(pools[j].CreatedAt)
		}
		return pools[i].ID < pools[j].ID
	})
}
