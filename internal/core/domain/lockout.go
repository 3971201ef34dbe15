package domain

// LockoutRecord captures the failed-attempt state for an account key. Records
// are created lazily on the first failure and expire via the store's TTL, so
// an absent record is equivalent to {FailedAttempts: 0, Locked: false}.
type LockoutRecord struct {
	FailedAttempts int
	Locked         bool
}
