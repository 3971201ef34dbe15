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
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

const defaultResetTTL = time.Hour

// PasswordResetService coordinates the two-phase password reset flow.
type PasswordResetService struct {
	users             port.UserRepository
	tokens            port.ResetTokenStore
	notifier          port.Notifier
	events            port.EventPublisher
	passwordValidator *security.PasswordValidator
	logger            *zap.Logger
	now               func() time.Time
	resetTTL          time.Duration
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(users port.UserRepository, tokens port.ResetTokenStore, notifier port.Notifier, events port.EventPublisher, validator *security.PasswordValidator, log *zap.Logger) *PasswordResetService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordResetService{
		users:             users,
		tokens:            tokens,
		notifier:          notifier,
		events:            events,
		passwordValidator: validator,
		logger:            log,
		now:               time.Now,
		resetTTL:          defaultResetTTL,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *PasswordResetService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// WithTTL overrides the advertised reset token lifetime.
func (s *PasswordResetService) WithTTL(ttl time.Duration) {
	if ttl > 0 {
		s.resetTTL = ttl
	}
}

// RequestReset issues a reset token for the account and mails it. An unknown
// email returns nil with no token generated and no email sent: the response
// shape is identical either way, so callers cannot probe which addresses have
// accounts.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	key := domain.NormalizeEmail(email)
	if key == "" {
		return nil
	}

	user, err := s.users.FindByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup user by email: %w", err)
	}

	token, err := s.tokens.GenerateResetToken(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
			s.logger.Warn("password reset email failed",
				zap.String("email", logger.MaskEmail(user.Email)),
				zap.Error(err),
			)
		}
	}

	s.publishResetRequested(ctx, user)

	return nil
}

// CompleteReset redeems a reset token and sets the new password. The password
// strength check always runs, even when the token would fail anyway, so weak
// passwords are reported regardless of token state. Token verification is the
// atomic claim point: once a verification succeeds, every later redemption of
// the same token fails, including concurrent ones.
func (s *PasswordResetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	if err := s.passwordValidator.Validate(newPassword); err != nil {
		return domain.NewValidationError(err.Error())
	}

	userID, err := s.tokens.VerifyResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewValidationError(domain.MsgInvalidResetToken)
		}
		return fmt.Errorf("verify reset token: %w", err)
	}

	changedAt := s.now().UTC()
	if err := s.users.UpdatePassword(ctx, userID, newPassword, changedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.tokens.InvalidateResetToken(ctx, token); err != nil {
		// The verify step already claimed the token; invalidation is cleanup.
		s.logger.Warn("invalidate reset token failed", zap.String("user_id", userID), zap.Error(err))
	}

	s.publishPasswordChanged(ctx, userID, changedAt)

	return nil
}

func (s *PasswordResetService) publishResetRequested(ctx context.Context, user *domain.User) {
	if s.events == nil {
		return
	}

	now := s.now().UTC()
	event := domain.PasswordResetRequestedEvent{
		EventID:     uuid.NewString(),
		UserID:      user.ID,
		MaskedEmail: logger.MaskEmail(user.Email),
		RequestedAt: now,
		ExpiresAt:   now.Add(s.resetTTL),
	}

	if err := s.events.PublishPasswordResetRequested(ctx, event); err != nil {
		s.logger.Warn("publish password reset requested failed", zap.String("user_id", user.ID), zap.Error(err))
	}
}

func (s *PasswordResetService) publishPasswordChanged(ctx context.Context, userID string, changedAt time.Time) {
	if s.events == nil {
		return
	}

	event := domain.PasswordChangedEvent{
		EventID:   uuid.NewString(),
		UserID:    userID,
		ChangedAt: changedAt,
		Reason:    "password_reset",
	}

	if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
		s.logger.Warn("publish password changed failed", zap.String("user_id", userID), zap.Error(err))
	}
}
