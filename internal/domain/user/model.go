package user

import "time"

// Profile is the locally stored user record; identity itself lives in the
// external auth service.
type Profile struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
}

// Principal identifies an authenticated caller.
type Principal struct {
	UserID string
	Email  string
}
