package postgres

import (
	"database/sql"
	"time"

	"github.com/wizix/pickem-pool/internal/domain/user"
)

type profileTableModel struct {
	ID          string         `db:"id"`
	Email       string         `db:"email"`
	DisplayName sql.NullString `db:"display_name"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (row profileTableModel) toDomain() user.Profile {
	return user.Profile{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName.String,
		AvatarURL:   row.AvatarURL.String,
		CreatedAt:   row.CreatedAt,
	}
}
