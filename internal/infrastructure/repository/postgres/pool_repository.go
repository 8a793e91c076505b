package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wizix/pickem-pool/internal/domain/pool"
)

type PoolRepository struct {
	db *sqlx.DB
}

func NewPoolRepository(db *sqlx.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

func (r *PoolRepository) Create(ctx context.Context, p pool.Pool) (pool.Pool, error) {
	var row poolTableModel
	err := r.db.GetContext(ctx, &row,
		`INSERT INTO pools (name, description, season, created_by, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING *`,
		p.Name, p.Description, p.Season, p.CreatedBy, p.IsActive, p.CreatedAt)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("insert pool: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PoolRepository) GetByID(ctx context.Context, poolID string) (pool.Pool, bool, error) {
	var row poolTableModel
	err := r.db.GetContext(ctx, &row, `SELECT * FROM pools WHERE id = $1`, poolID)
	if err != nil {
		if isNotFound(err) {
			return pool.Pool{}, false, nil
		}
		return pool.Pool{}, false, fmt.Errorf("get pool by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PoolRepository) ListActive(ctx context.Context) ([]pool.Pool, error) {
	var rows []poolTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM pools WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list active pools: %w", err)
	}
	return poolRowsToDomain(rows), nil
}

func (r *PoolRepository) ListByUser(ctx context.Context, userID string) ([]pool.Pool, error) {
	var rows []poolTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT p.* FROM pools p
		 JOIN pool_members m ON m.pool_id = p.id
		 WHERE m.user_id = $1
		 ORDER BY p.created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list pools by user: %w", err)
	}
	return poolRowsToDomain(rows), nil
}

func (r *PoolRepository) Join(ctx context.Context, poolID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pool_members (pool_id, user_id, joined_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (pool_id, user_id) DO NOTHING`,
		poolID, userID)
	if err != nil {
		return fmt.Errorf("join pool: %w", err)
	}
	return nil
}

func (r *PoolRepository) Leave(ctx context.Context, poolID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM pool_members WHERE pool_id = $1 AND user_id = $2`,
		poolID, userID)
	if err != nil {
		return fmt.Errorf("leave pool: %w", err)
	}
	return nil
}

func (r *PoolRepository) IsMember(ctx context.Context, poolID, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM pool_members WHERE pool_id = $1 AND user_id = $2)`,
		poolID, userID)
	if err != nil {
		return false, fmt.Errorf("check pool membership: %w", err)
	}
	return exists, nil
}

func (r *PoolRepository) ListMembers(ctx context.Context, poolID string) ([]pool.Member, error) {
	var rows []memberRowModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT m.pool_id, m.user_id, m.paid, m.joined_at, pr.display_name, pr.avatar_url
		 FROM pool_members m
		 LEFT JOIN profiles pr ON pr.id = m.user_id
		 WHERE m.pool_id = $1
		 ORDER BY m.joined_at`,
		poolID)
	if err != nil {
		return nil, fmt.Errorf("list pool members: %w", err)
	}

	out := make([]pool.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func poolRowsToDomain(rows []poolTableModel) []pool.Pool {
	out := make([]pool.Pool, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
