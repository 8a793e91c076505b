package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wizix/pickem-pool/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	for _, g := range games {
		items[g.EventID] = g
	}
	return &GameRepository{items: items}
}

func (r *GameRepository) Upsert(_ context.Context, g game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[g.EventID] = g
	return nil
}

func (r *GameRepository) GetByEventID(_ context.Context, eventID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.items[eventID]
	return g, ok, nil
}

func (r *GameRepository) ListByWeek(_ context.Context, week, season int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, g := range r.items {
		if g.Week == week && g.Season == season {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Kickoff.Equal(out[j].Kickoff) {
			return out[i].Kickoff.Before(out[j].Kickoff)
		}
		return out[i].EventID < out[j].EventID
	})
	return out, nil
}
