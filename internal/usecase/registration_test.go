package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

func TestRegisterReportsFirstViolation(t *testing.T) {
	valid := domain.RegistrationInput{
		Email:    "bob@example.com",
		Name:     "Bob",
		Password: "a-long-enough-password",
	}

	cases := []struct {
		name    string
		mutate  func(in *domain.RegistrationInput)
		message string
	}{
		{
			name:    "missing email",
			mutate:  func(in *domain.RegistrationInput) { in.Email = "  " },
			message: domain.MsgEmailRequired,
		},
		{
			name:    "missing name",
			mutate:  func(in *domain.RegistrationInput) { in.Name = "" },
			message: domain.MsgNameRequired,
		},
		{
			name:    "missing password",
			mutate:  func(in *domain.RegistrationInput) { in.Password = "" },
			message: domain.MsgPasswordRequired,
		},
		{
			name:    "malformed email",
			mutate:  func(in *domain.RegistrationInput) { in.Email = "not-an-email" },
			message: domain.MsgInvalidEmailFormat,
		},
		{
			name:    "short password",
			mutate:  func(in *domain.RegistrationInput) { in.Password = "short" },
			message: domain.MsgPasswordTooShort,
		},
		{
			name: "presence beats format",
			mutate: func(in *domain.RegistrationInput) {
				in.Email = "not-an-email"
				in.Name = ""
				in.Password = "short"
			},
			message: domain.MsgNameRequired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)

			users := &stubUserRepository{}
			svc := NewRegistrationService(users, nil, nil, nil)

			_, err := svc.Register(context.Background(), input)

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Message != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, verr.Message)
			}
			if users.createCalls != 0 {
				t.Fatal("create attempted on invalid input")
			}
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	created := &domain.User{
		ID:           "3f6d9a4b-7e1c-4d58-a2b9-6c0e8f1d2a35",
		Email:        "bob@example.com",
		Name:         "Bob",
		PasswordHash: "$argon2id$not-a-real-hash",
		Role:         "user",
		RegisteredAt: time.Date(2025, time.April, 2, 9, 30, 0, 0, time.UTC),
	}
	users := &stubUserRepository{
		findByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email != "bob@example.com" {
				t.Fatalf("expected normalized email, got %q", email)
			}
			return nil, repository.ErrNotFound
		},
		createFn: func(_ context.Context, input domain.RegistrationInput) (*domain.User, error) {
			if input.Email != "bob@example.com" {
				t.Fatalf("create received email %q", input.Email)
			}
			return created, nil
		},
	}
	notifier := &stubNotifier{}
	events := &stubEventPublisher{}
	svc := NewRegistrationService(users, notifier, events, nil)

	user, err := svc.Register(context.Background(), domain.RegistrationInput{
		Email:    "  Bob@Example.COM ",
		Name:     "Bob",
		Password: "a-long-enough-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("unexpected user %q", user.ID)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked to caller")
	}
	if notifier.welcomeCalls != 1 {
		t.Fatalf("expected one welcome email, got %d", notifier.welcomeCalls)
	}
	if notifier.lastWelcomeEmail != created.Email {
		t.Fatalf("welcome email sent to %q", notifier.lastWelcomeEmail)
	}
	if len(events.registered) != 1 {
		t.Fatalf("expected one registered event, got %d", len(events.registered))
	}
	if events.registered[0].UserID != created.ID {
		t.Fatalf("registered event carries user %q", events.registered[0].UserID)
	}
	if events.registered[0].Email == created.Email {
		t.Fatal("registered event carries the raw email")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	existing := testUser()
	users := &stubUserRepository{
		findByEmailFn: func(context.Context, string) (*domain.User, error) {
			return existing, nil
		},
	}
	notifier := &stubNotifier{}
	svc := NewRegistrationService(users, notifier, nil, nil)

	_, err := svc.Register(context.Background(), domain.RegistrationInput{
		Email:    "alice@example.com",
		Name:     "Alice Again",
		Password: "a-long-enough-password",
	})

	var eerr *domain.UserExistsError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected user exists error, got %v", err)
	}
	if users.createCalls != 0 {
		t.Fatal("create attempted for a duplicate email")
	}
	if notifier.welcomeCalls != 0 {
		t.Fatal("welcome email sent for a duplicate email")
	}
}

func TestRegisterLosesCreationRace(t *testing.T) {
	users := &stubUserRepository{
		findByEmailFn: func(context.Context, string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
		createFn: func(context.Context, domain.RegistrationInput) (*domain.User, error) {
			return nil, repository.ErrConflict
		},
	}
	notifier := &stubNotifier{}
	svc := NewRegistrationService(users, notifier, nil, nil)

	_, err := svc.Register(context.Background(), domain.RegistrationInput{
		Email:    "bob@example.com",
		Name:     "Bob",
		Password: "a-long-enough-password",
	})

	var eerr *domain.UserExistsError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected user exists error, got %v", err)
	}
	if notifier.welcomeCalls != 0 {
		t.Fatal("welcome email sent for a failed create")
	}
}

func TestRegisterSurvivesWelcomeEmailFailure(t *testing.T) {
	created := testUser()
	users := &stubUserRepository{
		findByEmailFn: func(context.Context, string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
		createFn: func(context.Context, domain.RegistrationInput) (*domain.User, error) {
			return created, nil
		},
	}
	notifier := &stubNotifier{welcomeErr: errors.New("smtp: connection refused")}
	svc := NewRegistrationService(users, notifier, nil, nil)

	user, err := svc.Register(context.Background(), domain.RegistrationInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "a-long-enough-password",
	})
	if err != nil {
		t.Fatalf("register failed on a mail error: %v", err)
	}
	if user == nil || user.ID != created.ID {
		t.Fatalf("unexpected user %+v", user)
	}
}
