package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wizix/pickem-pool/internal/domain/game"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

const upsertGameQuery = `
INSERT INTO games (
	espn_event_id, name, short_name, week, season, season_type,
	status, status_detail,
	home_team_id, home_name, home_display_name, home_abbreviation, home_logo, home_score, home_winner,
	away_team_id, away_name, away_display_name, away_abbreviation, away_logo, away_score, away_winner,
	kickoff_at, updated_at
) VALUES (
	:espn_event_id, :name, :short_name, :week, :season, :season_type,
	:status, :status_detail,
	:home_team_id, :home_name, :home_display_name, :home_abbreviation, :home_logo, :home_score, :home_winner,
	:away_team_id, :away_name, :away_display_name, :away_abbreviation, :away_logo, :away_score, :away_winner,
	:kickoff_at, :updated_at
)
ON CONFLICT (espn_event_id) DO UPDATE SET
	name = EXCLUDED.name,
	short_name = EXCLUDED.short_name,
	week = EXCLUDED.week,
	season = EXCLUDED.season,
	season_type = EXCLUDED.season_type,
	status = EXCLUDED.status,
	status_detail = EXCLUDED.status_detail,
	home_team_id = EXCLUDED.home_team_id,
	home_name = EXCLUDED.home_name,
	home_display_name = EXCLUDED.home_display_name,
	home_abbreviation = EXCLUDED.home_abbreviation,
	home_logo = EXCLUDED.home_logo,
	home_score = EXCLUDED.home_score,
	home_winner = EXCLUDED.home_winner,
	away_team_id = EXCLUDED.away_team_id,
	away_name = EXCLUDED.away_name,
	away_display_name = EXCLUDED.away_display_name,
	away_abbreviation = EXCLUDED.away_abbreviation,
	away_logo = EXCLUDED.away_logo,
	away_score = EXCLUDED.away_score,
	away_winner = EXCLUDED.away_winner,
	kickoff_at = EXCLUDED.kickoff_at,
	updated_at = EXCLUDED.updated_at`

func (r *GameRepository) Upsert(ctx context.Context, g game.Game) error {
	row := gameToTableModel(g, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, upsertGameQuery, row); err != nil {
		return fmt.Errorf("upsert game event=%s: %w", g.EventID, err)
	}
	return nil
}

func (r *GameRepository) GetByEventID(ctx context.Context, eventID string) (game.Game, bool, error) {
	var row gameTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM games WHERE espn_event_id = $1`, eventID)
	if err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by event id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *GameRepository) ListByWeek(ctx context.Context, week, season int) ([]game.Game, error) {
	var rows []gameTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM games WHERE week = $1 AND season = $2 ORDER BY kickoff_at NULLS LAST, espn_event_id`,
		week, season)
	if err != nil {
		return nil, fmt.Errorf("list games week=%d season=%d: %w", week, season, err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
