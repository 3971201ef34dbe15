package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// UserRepository exposes persistence behavior for accounts. Password hashing and
// verification live behind this boundary: callers hand over plaintext once and
// never see or compare hashes themselves.
type UserRepository interface {
	// FindByCredentials returns the user matching email and password, or
	// repository.ErrNotFound when either the account is missing or the
	// password does not verify. The two cases are indistinguishable.
	FindByCredentials(ctx context.Context, email, password string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, input domain.RegistrationInput) (*domain.User, error)
	Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id string, newPassword string, changedAt time.Time) error
}
