package domain

// The core exposes three caller-visible failure kinds. Callers discriminate
// with errors.As, never by matching message text; the message is for humans.

// Messages pinned by the behavioral contract.
const (
	MsgCredentialsRequired    = "Email and password are required"
	MsgEmailRequired          = "Email is required"
	MsgNameRequired           = "Name is required"
	MsgPasswordRequired       = "Password is required"
	MsgInvalidEmailFormat     = "Invalid email format"
	MsgPasswordTooShort       = "Password must be at least 8 characters"
	MsgEmailImmutable         = "Email cannot be updated through this endpoint"
	MsgUserNotFound           = "User not found"
	MsgInvalidResetToken      = "Invalid or expired reset token"
	MsgInvalidCredentials     = "Invalid credentials"
	MsgAccountLocked          = "Account is locked due to too many failed attempts"
	MsgAuthBackendUnavailable = "Authentication failed. Please try again later"
	MsgEmailExists            = "Email already exists"
)

// ValidationError indicates structurally invalid or policy-violating input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError constructs a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// AuthenticationError indicates a credential mismatch, a lockout, or an
// underlying backend fault during authentication. Backend fault messages are
// deliberately generic so internals never leak to the caller.
type AuthenticationError struct {
	Message string
	// Locked is set when the failure is a lockout rather than a mismatch.
	Locked bool
}

func (e *AuthenticationError) Error() string { return e.Message }

// NewAuthenticationError constructs a credential-mismatch or backend failure.
func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{Message: message}
}

// NewLockoutError constructs the lockout-specific authentication failure.
func NewLockoutError() *AuthenticationError {
	return &AuthenticationError{Message: MsgAccountLocked, Locked: true}
}

// UserExistsError indicates a uniqueness violation on registration.
type UserExistsError struct {
	Message string
}

func (e *UserExistsError) Error() string { return e.Message }

// NewUserExistsError constructs a UserExistsError with the standard message.
func NewUserExistsError() *UserExistsError {
	return &UserExistsError{Message: MsgEmailExists}
}
