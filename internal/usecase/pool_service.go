package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wizix/pickem-pool/internal/domain/pool"
)

const maxPoolNameLength = 120

type PoolService struct {
	poolRepo      pool.Repository
	currentSeason int
	now           func() time.Time
}

func NewPoolService(poolRepo pool.Repository, currentSeason int) *PoolService {
	return &PoolService{
		poolRepo:      poolRepo,
		currentSeason: currentSeason,
		now:           time.Now,
	}
}

// Create opens a new pool and joins the creator as its first member.
func (s *PoolService) Create(ctx context.Context, creatorID, name, description string, season int) (pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Create")
	defer span.End()

	creatorID = strings.TrimSpace(creatorID)
	name = strings.TrimSpace(name)
	if creatorID == "" {
		return pool.Pool{}, fmt.Errorf("%w: creator id is required", ErrInvalidInput)
	}
	if name == "" {
		return pool.Pool{}, fmt.Errorf("%w: pool name is required", ErrInvalidInput)
	}
	if len(name) > maxPoolNameLength {
		return pool.Pool{}, fmt.Errorf("%w: pool name exceeds %d characters", ErrInvalidInput, maxPoolNameLength)
	}
	if season <= 0 {
		season = s.currentSeason
	}

	created, err := s.poolRepo.Create(ctx, pool.Pool{
		Name:        name,
		Description: strings.TrimSpace(description),
		Season:      season,
		CreatedBy:   creatorID,
		IsActive:    true,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return pool.Pool{}, fmt.Errorf("create pool: %w", err)
	}

	if err := s.poolRepo.Join(ctx, created.ID, creatorID); err != nil {
		return pool.Pool{}, fmt.Errorf("join creator to pool=%s: %w", created.ID, err)
	}
	return created, nil
}

func (s *PoolService) Get(ctx context.Context, poolID string) (pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Get")
	defer span.End()

	poolID = strings.TrimSpace(poolID)
	if poolID == "" {
		return pool.Pool{}, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}

	p, exists, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return pool.Pool{}, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}
	return p, nil
}

func (s *PoolService) ListActive(ctx context.Context) ([]pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.ListActive")
	defer span.End()

	pools, err := s.poolRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active pools: %w", err)
	}
	return pools, nil
}

func (s *PoolService) ListMine(ctx context.Context, userID string) ([]pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.ListMine")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	pools, err := s.poolRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pools user=%s: %w", userID, err)
	}
	return pools, nil
}

func (s *PoolService) Join(ctx context.Context, poolID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Join")
	defer span.End()

	poolID = strings.TrimSpace(poolID)
	userID = strings.TrimSpace(userID)
	if poolID == "" || userID == "" {
		return fmt.Errorf("%w: pool id and user id are required", ErrInvalidInput)
	}

	p, exists, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}
	if !p.IsActive {
		return fmt.Errorf("%w: pool=%s is closed", ErrInvalidInput, poolID)
	}

	member, err := s.poolRepo.IsMember(ctx, poolID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if member {
		return nil
	}

	if err := s.poolRepo.Join(ctx, poolID, userID); err != nil {
		return fmt.Errorf("join pool=%s user=%s: %w", poolID, userID, err)
	}
	return nil
}

func (s *PoolService) Leave(ctx context.Context, poolID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Leave")
	defer span.End()

	poolID = strings.TrimSpace(poolID)
	userID = strings.TrimSpace(userID)
	if poolID == "" || userID == "" {
		return fmt.Errorf("%w: pool id and user id are required", ErrInvalidInput)
	}

	member, err := s.poolRepo.IsMember(ctx, poolID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return fmt.Errorf("%w: user=%s is not a member of pool=%s", ErrNotFound, userID, poolID)
	}

	if err := s.poolRepo.Leave(ctx, poolID, userID); err != nil {
		return fmt.Errorf("leave pool=%s user=%s: %w", poolID, userID, err)
	}
	return nil
}

func (s *PoolService) Members(ctx context.Context, poolID string) ([]pool.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Members")
	defer span.End()

	poolID = strings.TrimSpace(poolID)
	if poolID == "" {
		return nil, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}

	_, exists, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}

	members, err := s.poolRepo.ListMembers(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("list pool members: %w", err)
	}
	return members, nil
}
