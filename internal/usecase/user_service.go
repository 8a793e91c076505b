package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wizix/pickem-pool/internal/domain/user"
)

const maxDisplayNameLength = 80

type UserService struct {
	userRepo user.Repository
}

func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "UserService.GetProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	profile, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !exists {
		return user.Profile{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return profile, nil
}

// UpdateProfile changes the caller's display name and avatar. Email and id
// are owned by the auth service and never change here.
func (s *UserService) UpdateProfile(ctx context.Context, userID, displayName, avatarURL string) (user.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "UserService.UpdateProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	displayName = strings.TrimSpace(displayName)
	if userID == "" {
		return user.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if displayName == "" {
		return user.Profile{}, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}
	if len(displayName) > maxDisplayNameLength {
		return user.Profile{}, fmt.Errorf("%w: display name exceeds %d characters", ErrInvalidInput, maxDisplayNameLength)
	}

	current, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !exists {
		return user.Profile{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	current.DisplayName = displayName
	current.AvatarURL = strings.TrimSpace(avatarURL)

	updated, err := s.userRepo.Update(ctx, current)
	if err != nil {
		return user.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}
