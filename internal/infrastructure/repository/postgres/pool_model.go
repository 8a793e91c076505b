package postgres

import (
	"database/sql"
	"time"

	"github.com/wizix/pickem-pool/internal/domain/pool"
)

type poolTableModel struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Season      int       `db:"season"`
	CreatedBy   string    `db:"created_by"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row poolTableModel) toDomain() pool.Pool {
	return pool.Pool{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Season:      row.Season,
		CreatedBy:   row.CreatedBy,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
	}
}

// memberRowModel joins pool_members with profiles so the member list carries
// display data without a second query.
type memberRowModel struct {
	PoolID      string         `db:"pool_id"`
	UserID      string         `db:"user_id"`
	DisplayName sql.NullString `db:"display_name"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	Paid        bool           `db:"paid"`
	JoinedAt    time.Time      `db:"joined_at"`
}

func (row memberRowModel) toDomain() pool.Member {
	return pool.Member{
		PoolID:      row.PoolID,
		UserID:      row.UserID,
		DisplayName: row.DisplayName.String,
		AvatarURL:   row.AvatarURL.String,
		Paid:        row.Paid,
		JoinedAt:    row.JoinedAt,
	}
}
