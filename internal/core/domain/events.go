package domain

import "time"

// UserRegisteredEvent is published after a successful account creation.
type UserRegisteredEvent struct {
	EventID      string         `json:"event_id"`
	UserID       string         `json:"user_id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	Role         string         `json:"role"`
	RegisteredAt time.Time      `json:"registered_at"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// PasswordResetRequestedEvent is published when a reset token is issued.
// The token itself never rides on the event; only its expiry does.
type PasswordResetRequestedEvent struct {
	EventID     string         `json:"event_id"`
	UserID      string         `json:"user_id"`
	MaskedEmail string         `json:"masked_email"`
	RequestedAt time.Time      `json:"requested_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// PasswordChangedEvent is published after a completed password reset.
type PasswordChangedEvent struct {
	EventID   string         `json:"event_id"`
	UserID    string         `json:"user_id"`
	ChangedAt time.Time      `json:"changed_at"`
	Reason    string         `json:"reason"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// AccountLockedEvent is published when repeated failures trip the lockout.
type AccountLockedEvent struct {
	EventID        string         `json:"event_id"`
	AccountKey     string         `json:"account_key"`
	FailedAttempts int            `json:"failed_attempts"`
	LockedAt       time.Time      `json:"locked_at"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}
