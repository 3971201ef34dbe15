package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
)

var errUnexpectedCall = errors.New("unexpected call")

// stubUserRepository implements port.UserRepository with per-method hooks.
// Methods without a hook fail loudly so tests catch unintended calls.
type stubUserRepository struct {
	findByCredentialsFn func(ctx context.Context, email, password string) (*domain.User, error)
	findByEmailFn       func(ctx context.Context, email string) (*domain.User, error)
	findByIDFn          func(ctx context.Context, id string) (*domain.User, error)
	createFn            func(ctx context.Context, input domain.RegistrationInput) (*domain.User, error)
	updateFn            func(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	updatePasswordFn    func(ctx context.Context, id string, newPassword string, changedAt time.Time) error

	findByCredentialsCalls int
	createCalls            int
	updatePasswordCalls    int
}

func (r *stubUserRepository) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	r.findByCredentialsCalls++
	if r.findByCredentialsFn == nil {
		return nil, errUnexpectedCall
	}
	return r.findByCredentialsFn(ctx, email, password)
}

func (r *stubUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.findByEmailFn == nil {
		return nil, errUnexpectedCall
	}
	return r.findByEmailFn(ctx, email)
}

func (r *stubUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if r.findByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return r.findByIDFn(ctx, id)
}

func (r *stubUserRepository) Create(ctx context.Context, input domain.RegistrationInput) (*domain.User, error) {
	r.createCalls++
	if r.createFn == nil {
		return nil, errUnexpectedCall
	}
	return r.createFn(ctx, input)
}

func (r *stubUserRepository) Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	if r.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return r.updateFn(ctx, id, update)
}

func (r *stubUserRepository) UpdatePassword(ctx context.Context, id string, newPassword string, changedAt time.Time) error {
	r.updatePasswordCalls++
	if r.updatePasswordFn == nil {
		return errUnexpectedCall
	}
	return r.updatePasswordFn(ctx, id, newPassword, changedAt)
}

var _ port.UserRepository = (*stubUserRepository)(nil)

// stubLockoutStore implements port.LockoutStore with per-method hooks.
type stubLockoutStore struct {
	registerFailureFn func(ctx context.Context, key string) (domain.LockoutRecord, bool, error)
	isLockedFn        func(ctx context.Context, key string) (bool, error)
	resetFn           func(ctx context.Context, key string) error

	registerFailureCalls int
	resetCalls           int
}

func (s *stubLockoutStore) RegisterFailure(ctx context.Context, key string) (domain.LockoutRecord, bool, error) {
	s.registerFailureCalls++
	if s.registerFailureFn == nil {
		return domain.LockoutRecord{}, false, nil
	}
	return s.registerFailureFn(ctx, key)
}

func (s *stubLockoutStore) IsLocked(ctx context.Context, key string) (bool, error) {
	if s.isLockedFn == nil {
		return false, nil
	}
	return s.isLockedFn(ctx, key)
}

func (s *stubLockoutStore) Reset(ctx context.Context, key string) error {
	s.resetCalls++
	if s.resetFn == nil {
		return nil
	}
	return s.resetFn(ctx, key)
}

var _ port.LockoutStore = (*stubLockoutStore)(nil)

// stubResetTokenStore implements port.ResetTokenStore with per-method hooks.
type stubResetTokenStore struct {
	generateFn   func(ctx context.Context, userID string) (string, error)
	verifyFn     func(ctx context.Context, token string) (string, error)
	invalidateFn func(ctx context.Context, token string) error

	generateCalls   int
	verifyCalls     int
	invalidateCalls int
}

func (s *stubResetTokenStore) GenerateResetToken(ctx context.Context, userID string) (string, error) {
	s.generateCalls++
	if s.generateFn == nil {
		return "", errUnexpectedCall
	}
	return s.generateFn(ctx, userID)
}

func (s *stubResetTokenStore) VerifyResetToken(ctx context.Context, token string) (string, error) {
	s.verifyCalls++
	if s.verifyFn == nil {
		return "", errUnexpectedCall
	}
	return s.verifyFn(ctx, token)
}

func (s *stubResetTokenStore) InvalidateResetToken(ctx context.Context, token string) error {
	s.invalidateCalls++
	if s.invalidateFn == nil {
		return nil
	}
	return s.invalidateFn(ctx, token)
}

var _ port.ResetTokenStore = (*stubResetTokenStore)(nil)

// stubNotifier records sends and optionally fails them.
type stubNotifier struct {
	welcomeErr error
	resetErr   error

	welcomeCalls int
	resetCalls   int

	lastWelcomeEmail string
	lastResetEmail   string
	lastResetToken   string
}

func (n *stubNotifier) SendWelcomeEmail(_ context.Context, email, _ string) error {
	n.welcomeCalls++
	n.lastWelcomeEmail = email
	return n.welcomeErr
}

func (n *stubNotifier) SendPasswordResetEmail(_ context.Context, email, _, token string) error {
	n.resetCalls++
	n.lastResetEmail = email
	n.lastResetToken = token
	return n.resetErr
}

var _ port.Notifier = (*stubNotifier)(nil)

// stubEventPublisher records published events.
type stubEventPublisher struct {
	registered     []domain.UserRegisteredEvent
	resetRequested []domain.PasswordResetRequestedEvent
	passwordChange []domain.PasswordChangedEvent
	locked         []domain.AccountLockedEvent
}

func (p *stubEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.registered = append(p.registered, event)
	return nil
}

func (p *stubEventPublisher) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	p.resetRequested = append(p.resetRequested, event)
	return nil
}

func (p *stubEventPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.passwordChange = append(p.passwordChange, event)
	return nil
}

func (p *stubEventPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.locked = append(p.locked, event)
	return nil
}

var _ port.EventPublisher = (*stubEventPublisher)(nil)
