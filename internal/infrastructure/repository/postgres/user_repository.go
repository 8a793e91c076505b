package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wizix/pickem-pool/internal/domain/user"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.Profile, bool, error) {
	var row profileTableModel
	err := r.db.GetContext(ctx, &row, `SELECT * FROM profiles WHERE id = $1`, userID)
	if err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, fmt.Errorf("get profile by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *UserRepository) Update(ctx context.Context, profile user.Profile) (user.Profile, error) {
	var row profileTableModel
	err := r.db.GetContext(ctx, &row,
		`UPDATE profiles
		 SET display_name = $1, avatar_url = $2, updated_at = now()
		 WHERE id = $3
		 RETURNING *`,
		profile.DisplayName, profile.AvatarURL, profile.ID)
	if err != nil {
		if isNotFound(err) {
			return user.Profile{}, fmt.Errorf("profile %s not found", profile.ID)
		}
		return user.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return row.toDomain(), nil
}
