package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wizix/pickem-pool/internal/domain/pick"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

// ReplaceForWeek deletes and reinserts a user's picks for a week inside one
// transaction, so a resubmission can never leave a partial set behind.
func (r *PickRepository) ReplaceForWeek(ctx context.Context, userID, poolID string, week, season int, picks []pick.Pick) ([]pick.Pick, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace picks tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM picks WHERE user_id = $1 AND pool_id = $2 AND week = $3 AND season = $4`,
		userID, poolID, week, season)
	if err != nil {
		return nil, fmt.Errorf("delete previous picks: %w", err)
	}

	now := time.Now().UTC()
	saved := make([]pick.Pick, 0, len(picks))
	for _, p := range picks {
		var row pickTableModel
		err := tx.GetContext(ctx, &row,
			`INSERT INTO picks (user_id, pool_id, game_id, week, season, picked_team_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING *`,
			userID, poolID, p.GameID, week, season, p.PickedTeamID, now)
		if err != nil {
			return nil, fmt.Errorf("insert pick game=%s: %w", p.GameID, err)
		}
		saved = append(saved, row.toDomain())
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace picks tx: %w", err)
	}
	return saved, nil
}

func (r *PickRepository) ListByUserWeek(ctx context.Context, userID, poolID string, week, season int) ([]pick.Pick, error) {
	var rows []pickTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM picks
		 WHERE user_id = $1 AND pool_id = $2 AND week = $3 AND season = $4
		 ORDER BY game_id`,
		userID, poolID, week, season)
	if err != nil {
		return nil, fmt.Errorf("list picks by user and week: %w", err)
	}
	return pickRowsToDomain(rows), nil
}

func (r *PickRepository) ListByPoolWeek(ctx context.Context, poolID string, week, season int) ([]pick.Pick, error) {
	var rows []pickTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM picks
		 WHERE pool_id = $1 AND week = $2 AND season = $3
		 ORDER BY user_id, game_id`,
		poolID, week, season)
	if err != nil {
		return nil, fmt.Errorf("list picks by pool and week: %w", err)
	}
	return pickRowsToDomain(rows), nil
}

func (r *PickRepository) ListResolvedByPoolSeason(ctx context.Context, poolID string, season int) ([]pick.Pick, error) {
	var rows []pickTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM picks
		 WHERE pool_id = $1 AND season = $2 AND is_correct IS NOT NULL`,
		poolID, season)
	if err != nil {
		return nil, fmt.Errorf("list resolved picks: %w", err)
	}
	return pickRowsToDomain(rows), nil
}

func (r *PickRepository) ListUnresolvedByGame(ctx context.Context, gameID string) ([]pick.Pick, error) {
	var rows []pickTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM picks WHERE game_id = $1 AND is_correct IS NULL`,
		gameID)
	if err != nil {
		return nil, fmt.Errorf("list unresolved picks game=%s: %w", gameID, err)
	}
	return pickRowsToDomain(rows), nil
}

func (r *PickRepository) SetResult(ctx context.Context, pickID string, correct bool) error {
	// The is_correct IS NULL guard makes re-scoring a no-op at the database
	// level; zero affected rows is not an error.
	_, err := r.db.ExecContext(ctx,
		`UPDATE picks SET is_correct = $1 WHERE id = $2 AND is_correct IS NULL`,
		correct, pickID)
	if err != nil {
		return fmt.Errorf("set pick result pick=%s: %w", pickID, err)
	}
	return nil
}
