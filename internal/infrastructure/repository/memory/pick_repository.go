package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wizix/pickem-pool/internal/domain/pick"
)

type PickRepository struct {
	mu     sync.RWMutex
	items  []pick.Pick
	nextID int
}

func NewPickRepository() *PickRepository {
	return &PickRepository{}
}

func (r *PickRepository) ReplaceForWeek(_ context.Context, userID, poolID string, week, season int, picks []pick.Pick) ([]pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, p := range r.items {
		if p.UserID == userID && p.PoolID == poolID && p.Week == week && p.Season == season {
			continue
		}
		kept = append(kept, p)
	}
	r.items = kept

	now := time.Now().UTC()
	saved := make([]pick.Pick, 0, len(picks))
	for _, p := range picks {
		r.nextID++
		p.ID = fmt.Sprintf("pick-%d", r.nextID)
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		r.items = append(r.items, p)
		saved = append(saved, p)
	}
	return saved, nil
}

func (r *PickRepository) ListByUserWeek(_ context.Context, userID, poolID string, week, season int) ([]pick.Pick, error) {
	return r.filter(func(p pick.Pick) bool {
		return p.UserID == userID && p.PoolID == poolID && p.Week == week && p.Season == season
	}), nil
}

func (r *PickRepository) ListByPoolWeek(_ context.Context, poolID string, week, season int) ([]pick.Pick, error) {
	return r.filter(func(p pick.Pick) bool {
		return p.PoolID == poolID && p.Week == week && p.Season == season
	}), nil
}

func (r *PickRepository) ListResolvedByPoolSeason(_ context.Context, poolID string, season int) ([]pick.Pick, error) {
	return r.filter(func(p pick.Pick) bool {
		return p.PoolID == poolID && p.Season == season && p.Resolved()
	}), nil
}

func (r *PickRepository) ListUnresolvedByGame(_ context.Context, gameID string) ([]pick.Pick, error) {
	return r.filter(func(p pick.Pick) bool {
		return p.GameID == gameID && !p.Resolved()
	}), nil
}

func (r *PickRepository) SetResult(_ context.Context, pickID string, correct bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID != pickID {
			continue
		}
		if r.items[i].Resolved() {
			return nil
		}
		value := correct
		r.items[i].Correct = &value
		return nil
	}
	return nil
}

func (r *PickRepository) filter(keep func(pick.Pick) bool) []pick.Pick {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pick.Pick
	for _, p := range r.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].GameID < out[j].GameID
	})
	return out
}
