package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// ProfileService handles restricted profile mutation.
type ProfileService struct {
	users  port.UserRepository
	logger *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(users port.UserRepository, log *zap.Logger) *ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileService{users: users, logger: log}
}

// GetProfile returns the user's current profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(domain.MsgUserNotFound)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the user's non-email profile
// fields. The user must exist and the payload must not carry an email field;
// both checks run before the store's update is invoked.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(domain.MsgUserNotFound)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := ValidateProfileUpdate(update); err != nil {
		return nil, err
	}

	updated, err := s.users.Update(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return updated, nil
}
