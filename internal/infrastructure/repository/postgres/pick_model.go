package postgres

import (
	"time"

	"github.com/wizix/pickem-pool/internal/domain/pick"
)

type pickTableModel struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	PoolID       string    `db:"pool_id"`
	GameID       string    `db:"game_id"`
	Week         int       `db:"week"`
	Season       int       `db:"season"`
	PickedTeamID string    `db:"picked_team_id"`
	IsCorrect    *bool     `db:"is_correct"`
	CreatedAt    time.Time `db:"created_at"`
}

func (row pickTableModel) toDomain() pick.Pick {
	return pick.Pick{
		ID:           row.ID,
		UserID:       row.UserID,
		PoolID:       row.PoolID,
		GameID:       row.GameID,
		Week:         row.Week,
		Season:       row.Season,
		PickedTeamID: row.PickedTeamID,
		Correct:      row.IsCorrect,
		CreatedAt:    row.CreatedAt,
	}
}

func pickRowsToDomain(rows []pickTableModel) []pick.Pick {
	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
