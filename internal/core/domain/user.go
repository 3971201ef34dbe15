package domain

import (
	"strings"
	"time"
)

// User mirrors the persisted representation in the accounts table.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Bio          *string
	RegisteredAt time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy of the user safe to hand back to callers.
func (u User) Sanitized() User {
	clean := u
	clean.PasswordHash = ""
	return clean
}

// RegistrationInput carries the payload for account creation.
type RegistrationInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// ProfileUpdate carries a partial profile mutation. Pointer fields distinguish
// "absent" from "set to empty"; a non-nil Email is rejected regardless of value
// because email changes go through a separate verified channel.
type ProfileUpdate struct {
	Email *string
	Name  *string
	Bio   *string
}

// Empty reports whether the update carries no mutations at all.
func (p ProfileUpdate) Empty() bool {
	return p.Email == nil && p.Name == nil && p.Bio == nil
}

// NormalizeEmail lowercases and trims an email for comparison and keying.
// Email uniqueness and lockout keys are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
