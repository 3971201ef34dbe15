package usecase

import (
	"context"
	"errors"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/logger"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// AuthService answers "is this login valid" by combining input validation, the
// lockout tracker, and the credential store.
type AuthService struct {
	users   port.UserRepository
	lockout port.LockoutStore
	events  port.EventPublisher
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users port.UserRepository, lockout port.LockoutStore, events port.EventPublisher, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:   users,
		lockout: lockout,
		events:  events,
		logger:  log,
		now:     time.Now,
	}
}

// Authenticate validates the supplied credentials and returns the matching
// user. Every call mutates the lockout tracker: failures increment the
// per-account counter, success clears it. Once an account is locked the
// credential store is never consulted, so hammering a locked account yields
// neither a password check nor a timing oracle.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	key := domain.NormalizeEmail(email)

	locked, err := s.lockout.IsLocked(ctx, key)
	if err != nil {
		// Lockout state unavailable counts as a backend fault: failing open
		// here would disable the lockout exactly when it is under pressure.
		s.logger.Error("lockout lookup failed", zap.String("account", logger.MaskEmail(key)), zap.Error(err))
		return nil, domain.NewAuthenticationError(domain.MsgAuthBackendUnavailable)
	}
	if locked {
		return nil, domain.NewLockoutError()
	}

	user, err := s.users.FindByCredentials(ctx, key, password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordFailure(ctx, key)
			return nil, domain.NewAuthenticationError(domain.MsgInvalidCredentials)
		}
		s.logger.Error("credential lookup failed", zap.String("account", logger.MaskEmail(key)), zap.Error(err))
		s.recordFailure(ctx, key)
		return nil, domain.NewAuthenticationError(domain.MsgAuthBackendUnavailable)
	}

	if err := s.lockout.Reset(ctx, key); err != nil {
		// Bookkeeping only; the login itself succeeded.
		s.logger.Warn("lockout reset failed", zap.String("account", logger.MaskEmail(key)), zap.Error(err))
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	record, tripped, err := s.lockout.RegisterFailure(ctx, key)
	if err != nil {
		s.logger.Warn("lockout bookkeeping failed", zap.String("account", logger.MaskEmail(key)), zap.Error(err))
		return
	}

	if tripped {
		s.logger.Info("account locked",
			zap.String("account", logger.MaskEmail(key)),
			zap.Int("failed_attempts", record.FailedAttempts),
		)
		s.publishAccountLocked(ctx, key, record.FailedAttempts)
	}
}

func (s *AuthService) publishAccountLocked(ctx context.Context, key string, attempts int) {
	if s.events == nil {
		return
	}

	event := domain.AccountLockedEvent{
		EventID:        uuid.NewString(),
		AccountKey:     logger.MaskEmail(key),
		FailedAttempts: attempts,
		LockedAt:       s.now().UTC(),
	}

	if err := s.events.PublishAccountLocked(ctx, event); err != nil {
		s.logger.Warn("publish account locked failed", zap.Error(err))
	}
}
