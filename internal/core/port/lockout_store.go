package port

import (
	"context"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// LockoutStore tracks consecutive authentication failures per account key and
// owns the Open→Locked transition. Implementations must make RegisterFailure's
// increment-and-compare atomic per key: two concurrent failures at
// threshold-1 must trip the lock exactly once.
type LockoutStore interface {
	// RegisterFailure records one failed attempt and returns the resulting
	// record. Tripped is true only on the call that crossed the threshold.
	RegisterFailure(ctx context.Context, key string) (record domain.LockoutRecord, tripped bool, err error)
	// IsLocked reports the current lock state without mutating it.
	IsLocked(ctx context.Context, key string) (bool, error)
	// Reset clears the failure count and lock. Used on successful
	// authentication and by administrative unlock.
	Reset(ctx context.Context, key string) error
}
