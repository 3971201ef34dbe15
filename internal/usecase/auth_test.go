package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/repository"
	"github.com/arklim/social-platform-accounts/internal/repository/memory"
)

func testUser() *domain.User {
	return &domain.User{
		ID:           "8e1c6f2a-5a0f-4c25-9f3b-0d2f1a9e7b41",
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "$argon2id$not-a-real-hash",
		Role:         "user",
		RegisteredAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAuthenticateRejectsMissingCredentials(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "both empty", email: "", password: ""},
		{name: "missing email", email: "", password: "secret-password"},
		{name: "missing password", email: "alice@example.com", password: ""},
		{name: "blank email", email: "   ", password: "secret-password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &stubUserRepository{}
			lockout := &stubLockoutStore{
				isLockedFn: func(context.Context, string) (bool, error) {
					return false, errors.New("lockout store must not be consulted")
				},
			}
			svc := NewAuthService(users, lockout, nil, nil)

			_, err := svc.Authenticate(context.Background(), tc.email, tc.password)

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Message != domain.MsgCredentialsRequired {
				t.Fatalf("unexpected message: %q", verr.Message)
			}
			if users.findByCredentialsCalls != 0 {
				t.Fatalf("credential store consulted %d times on invalid input", users.findByCredentialsCalls)
			}
		})
	}
}

func TestAuthenticateSuccessSanitizesAndResetsLockout(t *testing.T) {
	stored := testUser()
	users := &stubUserRepository{
		findByCredentialsFn: func(_ context.Context, email, password string) (*domain.User, error) {
			if email != "alice@example.com" {
				t.Fatalf("expected normalized email, got %q", email)
			}
			if password != "correct horse" {
				t.Fatalf("unexpected password %q", password)
			}
			return stored, nil
		},
	}
	lockout := &stubLockoutStore{}
	svc := NewAuthService(users, lockout, nil, nil)

	user, err := svc.Authenticate(context.Background(), "  Alice@Example.COM ", "correct horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != stored.ID {
		t.Fatalf("unexpected user %q", user.ID)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked to caller")
	}
	if lockout.resetCalls != 1 {
		t.Fatalf("expected one lockout reset, got %d", lockout.resetCalls)
	}
	if lockout.registerFailureCalls != 0 {
		t.Fatalf("failure recorded on success: %d", lockout.registerFailureCalls)
	}
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	users := &stubUserRepository{
		findByCredentialsFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	lockout := &stubLockoutStore{}
	svc := NewAuthService(users, lockout, nil, nil)

	_, err := svc.Authenticate(context.Background(), "alice@example.com", "wrong")

	var aerr *domain.AuthenticationError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if aerr.Message != domain.MsgInvalidCredentials {
		t.Fatalf("unexpected message: %q", aerr.Message)
	}
	if aerr.Locked {
		t.Fatal("mismatch reported as lockout")
	}
	if lockout.registerFailureCalls != 1 {
		t.Fatalf("expected one recorded failure, got %d", lockout.registerFailureCalls)
	}
}

func TestAuthenticateLocksAfterThresholdFailures(t *testing.T) {
	const threshold = 5

	users := &stubUserRepository{
		findByCredentialsFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	lockout := memory.NewLockoutStore(threshold, 15*time.Minute)
	events := &stubEventPublisher{}
	svc := NewAuthService(users, lockout, events, nil)

	ctx := context.Background()
	for i := 0; i < threshold; i++ {
		_, err := svc.Authenticate(ctx, "alice@example.com", "wrong")
		var aerr *domain.AuthenticationError
		if !errors.As(err, &aerr) {
			t.Fatalf("attempt %d: expected authentication error, got %v", i+1, err)
		}
		if aerr.Locked {
			t.Fatalf("attempt %d: lock reported before threshold", i+1)
		}
		if aerr.Message != domain.MsgInvalidCredentials {
			t.Fatalf("attempt %d: unexpected message %q", i+1, aerr.Message)
		}
	}

	calls := users.findByCredentialsCalls

	// The attempt after the threshold must be rejected before the credential
	// store is consulted.
	_, err := svc.Authenticate(ctx, "alice@example.com", "wrong")
	var aerr *domain.AuthenticationError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if !aerr.Locked {
		t.Fatal("expected lockout after threshold failures")
	}
	if aerr.Message != domain.MsgAccountLocked {
		t.Fatalf("unexpected message: %q", aerr.Message)
	}
	if users.findByCredentialsCalls != calls {
		t.Fatal("credential store consulted for a locked account")
	}

	if len(events.locked) != 1 {
		t.Fatalf("expected one lock event, got %d", len(events.locked))
	}
	if events.locked[0].FailedAttempts != threshold {
		t.Fatalf("lock event reports %d attempts", events.locked[0].FailedAttempts)
	}
	if events.locked[0].AccountKey == "alice@example.com" {
		t.Fatal("lock event carries the raw account email")
	}
}

func TestAuthenticateSuccessClearsFailureCount(t *testing.T) {
	const threshold = 5

	password := "correct horse"
	stored := testUser()
	users := &stubUserRepository{
		findByCredentialsFn: func(_ context.Context, _, pw string) (*domain.User, error) {
			if pw != password {
				return nil, repository.ErrNotFound
			}
			return stored, nil
		},
	}
	lockout := memory.NewLockoutStore(threshold, 15*time.Minute)
	svc := NewAuthService(users, lockout, nil, nil)

	ctx := context.Background()
	for i := 0; i < threshold-1; i++ {
		if _, err := svc.Authenticate(ctx, "alice@example.com", "wrong"); err == nil {
			t.Fatalf("attempt %d unexpectedly succeeded", i+1)
		}
	}

	if _, err := svc.Authenticate(ctx, "alice@example.com", password); err != nil {
		t.Fatalf("login at threshold-1 failures: %v", err)
	}

	// The counter restarted, so another threshold-1 failures still leave the
	// account usable.
	for i := 0; i < threshold-1; i++ {
		_, err := svc.Authenticate(ctx, "alice@example.com", "wrong")
		var aerr *domain.AuthenticationError
		if !errors.As(err, &aerr) {
			t.Fatalf("expected authentication error, got %v", err)
		}
		if aerr.Locked {
			t.Fatalf("locked after %d post-reset failures", i+1)
		}
	}

	if _, err := svc.Authenticate(ctx, "alice@example.com", password); err != nil {
		t.Fatalf("login after counter reset: %v", err)
	}
}

func TestAuthenticateLockoutKeyIsCaseInsensitive(t *testing.T) {
	users := &stubUserRepository{
		findByCredentialsFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	lockout := memory.NewLockoutStore(3, 15*time.Minute)
	svc := NewAuthService(users, lockout, nil, nil)

	ctx := context.Background()
	variants := []string{"alice@example.com", "ALICE@example.com", "Alice@Example.Com"}
	for _, email := range variants {
		if _, err := svc.Authenticate(ctx, email, "wrong"); err == nil {
			t.Fatalf("attempt for %q unexpectedly succeeded", email)
		}
	}

	_, err := svc.Authenticate(ctx, "aLiCe@eXaMpLe.CoM", "wrong")
	var aerr *domain.AuthenticationError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if !aerr.Locked {
		t.Fatal("case variants did not share a lockout counter")
	}
}

func TestAuthenticateBackendFailures(t *testing.T) {
	t.Run("lockout store down", func(t *testing.T) {
		users := &stubUserRepository{}
		lockout := &stubLockoutStore{
			isLockedFn: func(context.Context, string) (bool, error) {
				return false, errors.New("redis: connection refused")
			},
		}
		svc := NewAuthService(users, lockout, nil, nil)

		_, err := svc.Authenticate(context.Background(), "alice@example.com", "secret")

		var aerr *domain.AuthenticationError
		if !errors.As(err, &aerr) {
			t.Fatalf("expected authentication error, got %v", err)
		}
		if aerr.Message != domain.MsgAuthBackendUnavailable {
			t.Fatalf("unexpected message: %q", aerr.Message)
		}
		if users.findByCredentialsCalls != 0 {
			t.Fatal("credential store consulted while lockout state unknown")
		}
	})

	t.Run("credential store down", func(t *testing.T) {
		users := &stubUserRepository{
			findByCredentialsFn: func(context.Context, string, string) (*domain.User, error) {
				return nil, errors.New("pg: connection refused")
			},
		}
		lockout := &stubLockoutStore{}
		svc := NewAuthService(users, lockout, nil, nil)

		_, err := svc.Authenticate(context.Background(), "alice@example.com", "secret")

		var aerr *domain.AuthenticationError
		if !errors.As(err, &aerr) {
			t.Fatalf("expected authentication error, got %v", err)
		}
		if aerr.Message != domain.MsgAuthBackendUnavailable {
			t.Fatalf("unexpected message: %q", aerr.Message)
		}
		if lockout.registerFailureCalls != 1 {
			t.Fatalf("expected failure to be recorded, got %d", lockout.registerFailureCalls)
		}
	})
}
