package memory

import (
	"context"
	"sync"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
)

const (
	defaultLockoutThreshold = 5
	defaultLockoutTTL       = 15 * time.Minute
)

type lockoutEntry struct {
	attempts  int
	locked    bool
	expiresAt time.Time
}

// LockoutStore is an in-process implementation of port.LockoutStore. The
// increment-and-compare runs under one lock, so concurrent failures against
// the same key serialize and the threshold trips exactly once. Entries expire
// after the configured TTL, which is also the automatic unlock path.
type LockoutStore struct {
	mu        sync.Mutex
	entries   map[string]*lockoutEntry
	threshold int
	ttl       time.Duration
	now       func() time.Time
}

// NewLockoutStore constructs a lockout store. Non-positive threshold or TTL
// fall back to the defaults (5 attempts, 15 minutes).
func NewLockoutStore(threshold int, ttl time.Duration) *LockoutStore {
	if threshold <= 0 {
		threshold = defaultLockoutThreshold
	}
	if ttl <= 0 {
		ttl = defaultLockoutTTL
	}
	return &LockoutStore{
		entries:   make(map[string]*lockoutEntry),
		threshold: threshold,
		ttl:       ttl,
		now:       time.Now,
	}
}

// WithClock overrides the clock, for tests exercising expiry.
func (s *LockoutStore) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// RegisterFailure increments the failure count for key and trips the lock when
// the count reaches the threshold.
func (s *LockoutStore) RegisterFailure(_ context.Context, key string) (domain.LockoutRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry := s.live(key, now)
	if entry == nil {
		entry = &lockoutEntry{}
		s.entries[key] = entry
	}

	entry.attempts++
	entry.expiresAt = now.Add(s.ttl)

	tripped := false
	if !entry.locked && entry.attempts >= s.threshold {
		entry.locked = true
		tripped = true
	}

	return domain.LockoutRecord{FailedAttempts: entry.attempts, Locked: entry.locked}, tripped, nil
}

// IsLocked reports whether key is currently locked.
func (s *LockoutStore) IsLocked(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.live(key, s.now())
	return entry != nil && entry.locked, nil
}

// Reset clears the failure state for key.
func (s *LockoutStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// live returns the entry for key, dropping it first if expired. Callers hold mu.
func (s *LockoutStore) live(key string, now time.Time) *lockoutEntry {
	entry, ok := s.entries[key]
	if !ok {
		return nil
	}
	if now.After(entry.expiresAt) {
		delete(s.entries, key)
		return nil
	}
	return entry
}

var _ port.LockoutStore = (*LockoutStore)(nil)
