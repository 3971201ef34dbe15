package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
)

const defaultLockoutPrefix = "accounts:lockout"

// registerFailureScript performs the increment-and-compare in one round trip
// so two concurrent failures at threshold-1 cannot both observe the
// pre-threshold count. Returns {attempts, locked, tripped}.
var registerFailureScript = red.NewScript(`
local attempts = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
local locked = redis.call('HGET', KEYS[1], 'locked')
local tripped = 0
if locked ~= '1' and attempts >= tonumber(ARGV[1]) then
	redis.call('HSET', KEYS[1], 'locked', '1')
	locked = '1'
	tripped = 1
end
redis.call('PEXPIRE', KEYS[1], ARGV[2])
if locked == '1' then
	return {attempts, 1, tripped}
end
return {attempts, 0, tripped}
`)

// LockoutStore persists per-account failure state in Redis hashes. Key expiry
// doubles as the automatic unlock path.
type LockoutStore struct {
	client    *red.Client
	prefix    string
	threshold int
	ttl       time.Duration
}

// LockoutConfig tunes the Redis lockout store.
type LockoutConfig struct {
	KeyPrefix string
	Threshold int
	TTL       time.Duration
}

// NewLockoutStore constructs a Redis-backed lockout store.
func NewLockoutStore(client *red.Client, cfg LockoutConfig) *LockoutStore {
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = defaultLockoutPrefix
	}
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = 5
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &LockoutStore{
		client:    client,
		prefix:    prefix,
		threshold: threshold,
		ttl:       ttl,
	}
}

// RegisterFailure atomically records one failed attempt for key.
func (s *LockoutStore) RegisterFailure(ctx context.Context, key string) (domain.LockoutRecord, bool, error) {
	result, err := registerFailureScript.Run(ctx, s.client, []string{s.key(key)}, s.threshold, s.ttl.Milliseconds()).Result()
	if err != nil {
		return domain.LockoutRecord{}, false, fmt.Errorf("redis register failure: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return domain.LockoutRecord{}, false, fmt.Errorf("unexpected script reply %T", result)
	}

	attempts, _ := values[0].(int64)
	locked, _ := values[1].(int64)
	tripped, _ := values[2].(int64)

	record := domain.LockoutRecord{
		FailedAttempts: int(attempts),
		Locked:         locked == 1,
	}

	return record, tripped == 1, nil
}

// IsLocked reports whether key is currently locked.
func (s *LockoutStore) IsLocked(ctx context.Context, key string) (bool, error) {
	locked, err := s.client.HGet(ctx, s.key(key), "locked").Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis hget locked: %w", err)
	}

	return locked == "1", nil
}

// Reset clears the failure state for key.
func (s *LockoutStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del lockout: %w", err)
	}
	return nil
}

func (s *LockoutStore) key(identifier string) string {
	return fmt.Sprintf("%s:%s", s.prefix, identifier)
}

var _ port.LockoutStore = (*LockoutStore)(nil)
