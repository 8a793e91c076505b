package memory

import (
	"time"

	"github.com/wizix/pickem-pool/internal/domain/pool"
	"github.com/wizix/pickem-pool/internal/domain/user"
)

const (
	SeedUserAlice = "11111111-1111-1111-1111-111111111111"
	SeedUserBob   = "22222222-2222-2222-2222-222222222222"

	SeedPoolOffice = "pool-office-2025"
)

// SeedProfiles returns dev fixtures for running the API without Postgres.
func SeedProfiles() []user.Profile {
	created := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	return []user.Profile{
		{ID: SeedUserAlice, Email: "alice@example.com", DisplayName: "Alice", CreatedAt: created},
		{ID: SeedUserBob, Email: "bob@example.com", DisplayName: "Bob", CreatedAt: created},
	}
}

func SeedPools() []pool.Pool {
	return []pool.Pool{
		{
			ID:          SeedPoolOffice,
			Name:        "Office Pool",
			Description: "Weekly winners, season-long bragging rights",
			Season:      2025,
			CreatedBy:   SeedUserAlice,
			IsActive:    true,
			CreatedAt:   time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		},
	}
}
