package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

const defaultResetTokenPrefix = "accounts:reset"

// ResetTokenStore keeps password reset tokens in Redis. Only the SHA-256
// digest of the raw token is stored, and the value is claimed with GETDEL so
// a token can be consumed at most once.
type ResetTokenStore struct {
	client *red.Client
	prefix string
	ttl    time.Duration
}

// ResetTokenConfig tunes the Redis reset token store.
type ResetTokenConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// NewResetTokenStore constructs a Redis-backed reset token store.
func NewResetTokenStore(client *red.Client, cfg ResetTokenConfig) *ResetTokenStore {
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = defaultResetTokenPrefix
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &ResetTokenStore{client: client, prefix: prefix, ttl: ttl}
}

// GenerateResetToken mints a new single-use token bound to userID.
func (s *ResetTokenStore) GenerateResetToken(ctx context.Context, userID string) (string, error) {
	token, err := security.GenerateSecureToken(32)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	key := s.key(security.HashToken(token))
	if err := s.client.Set(ctx, key, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set reset token: %w", err)
	}

	return token, nil
}

// VerifyResetToken resolves token to its owner and claims it in the same
// round trip. Unknown, expired, and already claimed tokens all report
// repository.ErrNotFound.
func (s *ResetTokenStore) VerifyResetToken(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.key(security.HashToken(token))).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("redis getdel reset token: %w", err)
	}

	return userID, nil
}

// InvalidateResetToken discards token. Invalidating an absent token is a
// no-op.
func (s *ResetTokenStore) InvalidateResetToken(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(security.HashToken(token))).Err(); err != nil {
		return fmt.Errorf("redis del reset token: %w", err)
	}
	return nil
}

func (s *ResetTokenStore) key(tokenHash string) string {
	return fmt.Sprintf("%s:%s", s.prefix, tokenHash)
}

var _ port.ResetTokenStore = (*ResetTokenStore)(nil)
