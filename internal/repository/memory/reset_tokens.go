package memory

import (
	"context"
	"sync"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

const defaultResetTokenTTL = time.Hour

type resetTokenEntry struct {
	userID    string
	expiresAt time.Time
}

// ResetTokenStore is an in-process implementation of port.ResetTokenStore.
// Tokens are keyed by their SHA-256 hash; VerifyResetToken removes the entry
// under the lock, which is the atomic claim that makes tokens single-use.
type ResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]resetTokenEntry
	ttl    time.Duration
	now    func() time.Time
}

// NewResetTokenStore constructs a reset token store with the given TTL.
func NewResetTokenStore(ttl time.Duration) *ResetTokenStore {
	if ttl <= 0 {
		ttl = defaultResetTokenTTL
	}
	return &ResetTokenStore{
		tokens: make(map[string]resetTokenEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the clock, for tests exercising expiry.
func (s *ResetTokenStore) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// GenerateResetToken issues a fresh token bound to userID.
func (s *ResetTokenStore) GenerateResetToken(_ context.Context, userID string) (string, error) {
	raw, err := security.GenerateSecureToken(32)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.tokens[security.HashToken(raw)] = resetTokenEntry{
		userID:    userID,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	return raw, nil
}

// VerifyResetToken resolves and claims the token in one step.
func (s *ResetTokenStore) VerifyResetToken(_ context.Context, token string) (string, error) {
	hash := security.HashToken(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[hash]
	if !ok {
		return "", repository.ErrNotFound
	}

	delete(s.tokens, hash)

	if s.now().After(entry.expiresAt) {
		return "", repository.ErrNotFound
	}

	return entry.userID, nil
}

// InvalidateResetToken discards the token. Idempotent.
func (s *ResetTokenStore) InvalidateResetToken(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.tokens, security.HashToken(token))
	s.mu.Unlock()
	return nil
}

var _ port.ResetTokenStore = (*ResetTokenStore)(nil)
