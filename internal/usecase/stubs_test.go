package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/domain/pick"
	"github.com/wizix/pickem-pool/internal/domain/pool"
	"github.com/wizix/pickem-pool/internal/domain/user"
)

type stubGameRepository struct {
	mu        sync.Mutex
	byEvent   map[string]game.Game
	upsertErr error
	listErr   error
}

func newStubGameRepository(games ...game.Game) *stubGameRepository {
	repo := &stubGameRepository{byEvent: make(map[string]game.Game)}
	for _, g := range games {
		repo.byEvent[g.EventID] = g
	}
	return repo
}

func (r *stubGameRepository) Upsert(_ context.Context, g game.Game) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEvent[g.EventID] = g
	return nil
}

func (r *stubGameRepository) GetByEventID(_ context.Context, eventID string) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byEvent[eventID]
	return g, ok, nil
}

func (r *stubGameRepository) ListByWeek(_ context.Context, week, season int) ([]game.Game, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []game.Game
	for _, g := range r.byEvent {
		if g.Week == week && g.Season == season {
			out = append(out, g)
		}
	}
	return out, nil
}

type stubPickRepository struct {
	mu     sync.Mutex
	picks  []pick.Pick
	nextID int
}

func (r *stubPickRepository) add(p pick.Pick) pick.Pick {
	r.nextID++
	p.ID = fmt.Sprintf("pick-%d", r.nextID)
	r.picks = append(r.picks, p)
	return p
}

func (r *stubPickRepository) seed(picks ...pick.Pick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range picks {
		r.add(p)
	}
}

func (r *stubPickRepository) ReplaceForWeek(_ context.Context, userID, poolID string, week, season int, picks []pick.Pick) ([]pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.picks[:0]
	for _, p := range r.picks {
		if p.UserID == userID && p.PoolID == poolID && p.Week == week && p.Season == season {
			continue
		}
		kept = append(kept, p)
	}
	r.picks = kept

	saved := make([]pick.Pick, 0, len(picks))
	for _, p := range picks {
		saved = append(saved, r.add(p))
	}
	return saved, nil
}

func (r *stubPickRepository) ListByUserWeek(_ context.Context, userID, poolID string, week, season int) ([]pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pick.Pick
	for _, p := range r.picks {
		if p.UserID == userID && p.PoolID == poolID && p.Week == week && p.Season == season {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPickRepository) ListByPoolWeek(_ context.Context, poolID string, week, season int) ([]pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pick.Pick
	for _, p := range r.picks {
		if p.PoolID == poolID && p.Week == week && p.Season == season {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPickRepository) ListResolvedByPoolSeason(_ context.Context, poolID string, season int) ([]pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pick.Pick
	for _, p := range r.picks {
		if p.PoolID == poolID && p.Season == season && p.Resolved() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPickRepository) ListUnresolvedByGame(_ context.Context, gameID string) ([]pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pick.Pick
	for _, p := range r.picks {
		if p.GameID == gameID && !p.Resolved() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPickRepository) SetResult(_ context.Context, pickID string, correct bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.picks {
		if r.picks[i].ID == pickID {
			value := correct
			r.picks[i].Correct = &value
			return nil
		}
	}
	return fmt.Errorf("pick %s not found", pickID)
}

func (r *stubPickRepository) get(pickID string) (pick.Pick, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.picks {
		if p.ID == pickID {
			return p, true
		}
	}
	return pick.Pick{}, false
}

type stubPoolRepository struct {
	mu      sync.Mutex
	pools   map[string]pool.Pool
	members map[string][]pool.Member
	nextID  int
}

func newStubPoolRepository(pools ...pool.Pool) *stubPoolRepository {
	repo := &stubPoolRepository{
		pools:   make(map[string]pool.Pool),
		members: make(map[string][]pool.Member),
	}
	for _, p := range pools {
		repo.pools[p.ID] = p
	}
	return repo
}

func (r *stubPoolRepository) addMember(poolID string, m pool.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.PoolID = poolID
	r.members[poolID] = append(r.members[poolID], m)
}

func (r *stubPoolRepository) Create(_ context.Context, p pool.Pool) (pool.Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = fmt.Sprintf("pool-%d", r.nextID)
	r.pools[p.ID] = p
	return p, nil
}

func (r *stubPoolRepository) GetByID(_ context.Context, poolID string) (pool.Pool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pools[poolID]
	return p, ok, nil
}

func (r *stubPoolRepository) ListActive(_ context.Context) ([]pool.Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pool.Pool
	for _, p := range r.pools {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPoolRepository) ListByUser(_ context.Context, userID string) ([]pool.Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pool.Pool
	for poolID, members := range r.members {
		for _, m := range members {
			if m.UserID == userID {
				out = append(out, r.pools[poolID])
				break
			}
		}
	}
	return out, nil
}

func (r *stubPoolRepository) Join(_ context.Context, poolID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[poolID] = append(r.members[poolID], pool.Member{PoolID: poolID, UserID: userID})
	return nil
}

func (r *stubPoolRepository) Leave(_ context.Context, poolID, userID string) error {
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

func (r *stubPoolRepository) IsMember(_ context.Context, poolID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members[poolID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPoolRepository) ListMembers(_ context.Context, poolID string) ([]pool.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pool.Member(nil), r.members[poolID]...), nil
}

type stubUserRepository struct {
	mu       sync.Mutex
	profiles map[string]user.Profile
}

func newStubUserRepository(profiles ...user.Profile) *stubUserRepository {
	repo := &stubUserRepository{profiles: make(map[string]user.Profile)}
	for _, p := range profiles {
		repo.profiles[p.ID] = p
	}
	return repo
}

func (r *stubUserRepository) GetByID(_ context.Context, userID string) (user.Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	return p, ok, nil
}

func (r *stubUserRepository) Update(_ context.Context, profile user.Profile) (user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
	return profile, nil
}

type stubScoreProvider struct {
	mu         sync.Mutex
	scoreboard ScoreboardResult
	teams      TeamsResult
	summary    SummaryResult
	err        error
	calls      int
}

func (p *stubScoreProvider) FetchScoreboard(_ context.Context, _, _, _ int) (ScoreboardResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return ScoreboardResult{}, p.err
	}
	return p.scoreboard, nil
}

func (p *stubScoreProvider) FetchTeams(_ context.Context) (TeamsResult, error) {
	if p.err != nil {
		return TeamsResult{}, p.err
	}
	return p.teams, nil
}

func (p *stubScoreProvider) FetchGameSummary(_ context.Context, _ string) (SummaryResult, error) {
	if p.err != nil {
		return SummaryResult{}, p.err
	}
	return p.summary, nil
}

type capturingPublisher struct {
	mu      sync.Mutex
	games   [][]game.Game
	results [][]PickResult
	err     error
}

func (p *capturingPublisher) PublishGameUpdates(_ context.Context, games []game.Game) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.games = append(p.games, games)
	return p.err
}

func (p *capturingPublisher) PublishPickResults(_ context.Context, results []PickResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, results)
	return p.err
}
