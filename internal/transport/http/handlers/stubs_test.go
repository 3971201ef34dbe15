package handlers

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

	updateCalls int
}

func (r *stubUserRepository) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
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
	if r.createFn == nil {
		return nil, errUnexpectedCall
	}
	return r.createFn(ctx, input)
}

func (r *stubUserRepository) Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	r.updateCalls++
	if r.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return r.updateFn(ctx, id, update)
}

func (r *stubUserRepository) UpdatePassword(ctx context.Context, id string, newPassword string, changedAt time.Time) error {
	if r.updatePasswordFn == nil {
		return errUnexpectedCall
	}
	return r.updatePasswordFn(ctx, id, newPassword, changedAt)
}

var _ port.UserRepository = (*stubUserRepository)(nil)
