package pick

import "time"

// Pick is one user's team selection for one game within one pool.
// Correct stays nil until the game's winner is resolved, then transitions to
// true/false exactly once and is never reverted.
type Pick struct {
	ID           string
	UserID       string
	PoolID       string
	GameID       string
	Week         int
	Season       int
	PickedTeamID string
	Correct      *bool
	CreatedAt    time.Time
}

func (p Pick) Resolved() bool {
	return p.Correct != nil
}
