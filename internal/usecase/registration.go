package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/logger"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// RegistrationService handles new account onboarding.
type RegistrationService struct {
	users    port.UserRepository
	notifier port.Notifier
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(users port.UserRepository, notifier port.Notifier, events port.EventPublisher, log *zap.Logger) *RegistrationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
		users:    users,
		notifier: notifier,
		events:   events,
		logger:   log,
		now:      time.Now,
	}
}

// Register validates the payload, guards email uniqueness, creates the account,
// and sends the welcome email. The uniqueness check runs before any create
// attempt, and the welcome email fires exactly once, only after a successful
// create. A failed welcome send is logged and swallowed; the account stands.
func (s *RegistrationService) Register(ctx context.Context, input domain.RegistrationInput) (*domain.User, error) {
	if err := ValidateRegistration(input); err != nil {
		return nil, err
	}

	input.Email = domain.NormalizeEmail(input.Email)

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.NewUserExistsError()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	user, err := s.users.Create(ctx, input)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost a race with a concurrent registration for the same email.
			return nil, domain.NewUserExistsError()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			s.logger.Warn("welcome email failed",
				zap.String("email", logger.MaskEmail(user.Email)),
				zap.Error(err),
			)
		}
	}

	s.publishUserRegistered(ctx, user)

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *RegistrationService) publishUserRegistered(ctx context.Context, user *domain.User) {
	if s.events == nil {
		return
	}

	event := domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Email:        logger.MaskEmail(user.Email),
		Name:         user.Name,
		Role:         user.Role,
		RegisteredAt: user.RegisteredAt,
	}

	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Warn("publish user registered failed", zap.String("user_id", user.ID), zap.Error(err))
	}
}
