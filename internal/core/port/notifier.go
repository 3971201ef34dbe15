package port

import "context"

// Notifier delivers account emails. Delivery is best-effort: the services log
// failures but never roll back the state change that preceded the send.
type Notifier interface {
	SendWelcomeEmail(ctx context.Context, email, name string) error
	SendPasswordResetEmail(ctx context.Context, email, name, token string) error
}
