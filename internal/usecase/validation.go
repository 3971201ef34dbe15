package usecase

import (
	"regexp"
	"strings"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// emailPattern accepts the conventional local@domain.tld shape. Deliverability
// is not checked here; the welcome email finding its way is the mailer's problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

// ValidateCredentials checks the shape of a login attempt. Absent and empty
// values are treated identically.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return domain.NewValidationError(domain.MsgCredentialsRequired)
	}
	return nil
}

// ValidateRegistration checks a registration payload and reports the first
// violation found. The order is part of the contract: presence checks for
// email, name, and password run before format and strength checks so the
// error message is deterministic when several fields are invalid at once.
func ValidateRegistration(input domain.RegistrationInput) error {
	if strings.TrimSpace(input.Email) == "" {
		return domain.NewValidationError(domain.MsgEmailRequired)
	}
	if strings.TrimSpace(input.Name) == "" {
		return domain.NewValidationError(domain.MsgNameRequired)
	}
	if input.Password == "" {
		return domain.NewValidationError(domain.MsgPasswordRequired)
	}
	if !emailPattern.MatchString(strings.TrimSpace(input.Email)) {
		return domain.NewValidationError(domain.MsgInvalidEmailFormat)
	}
	if len([]rune(input.Password)) < minPasswordLength {
		return domain.NewValidationError(domain.MsgPasswordTooShort)
	}
	return nil
}

// ValidateProfileUpdate rejects updates that carry an email field at all,
// whatever its value. Email changes go through a separate verified channel.
func ValidateProfileUpdate(update domain.ProfileUpdate) error {
	if update.Email != nil {
		return domain.NewValidationError(domain.MsgEmailImmutable)
	}
	return nil
}
