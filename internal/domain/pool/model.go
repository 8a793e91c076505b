package pool

import "time"

// Pool is a group of users competing on shared weekly picks for a season.
type Pool struct {
	ID          string
	Name        string
	Description string
	Season      int
	CreatedBy   string
	IsActive    bool
	CreatedAt   time.Time
}

// Member is one user's membership in a pool.
type Member struct {
	PoolID      string
	UserID      string
	DisplayName string
	AvatarURL   string
	Paid        bool
	JoinedAt    time.Time
}
