package port

import "context"

// ResetTokenStore manages single-use password reset tokens. The store owns the
// verified→spent transition: VerifyResetToken atomically claims the token, so
// two concurrent verifications of the same token cannot both observe it valid.
type ResetTokenStore interface {
	// GenerateResetToken issues an opaque token bound to the user identifier.
	GenerateResetToken(ctx context.Context, userID string) (string, error)
	// VerifyResetToken resolves a token to its bound user identifier and marks
	// it claimed in the same step. Unknown, expired, already-claimed, and
	// already-invalidated tokens all yield repository.ErrNotFound.
	VerifyResetToken(ctx context.Context, token string) (string, error)
	// InvalidateResetToken discards a token. Idempotent; invalidating an
	// unknown token is not an error.
	InvalidateResetToken(ctx context.Context, token string) error
}
