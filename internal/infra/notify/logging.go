package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/logger"
)

// LoggingNotifier stands in for a real mail sender in development and test
// environments. Recipient addresses are masked in log output; the reset token
// is only emitted at debug level so local flows can be exercised end to end.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier constructs a notifier that writes to the log.
func NewLoggingNotifier(log *zap.Logger) *LoggingNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingNotifier{logger: log}
}

// SendWelcomeEmail records a welcome email send.
func (n *LoggingNotifier) SendWelcomeEmail(_ context.Context, email, name string) error {
	n.logger.Info("welcome email queued",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("name", name),
	)
	return nil
}

// SendPasswordResetEmail records a password reset email send.
func (n *LoggingNotifier) SendPasswordResetEmail(_ context.Context, email, name, token string) error {
	n.logger.Info("password reset email queued",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("name", name),
	)
	n.logger.Debug("password reset token issued", zap.String("token", token))
	return nil
}

var _ port.Notifier = (*LoggingNotifier)(nil)
