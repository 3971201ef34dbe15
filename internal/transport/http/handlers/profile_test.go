package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/transport/http/middleware"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

func profileTestUser() *domain.User {
	return &domain.User{
		ID:           "8e1c6f2a-5a0f-4c25-9f3b-0d2f1a9e7b41",
		Email:        "alice@example.com",
		Name:         "Alice",
		Role:         "user",
		RegisteredAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newProfileRouter(users *stubUserRepository, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := usecase.NewProfileService(users, nil)
	handler := NewProfileHandler(svc)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"), func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	})
	return router
}

func patchProfile(router *gin.Engine, payload string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/profile", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateProfileRejectsEmailKey(t *testing.T) {
	existing := profileTestUser()

	cases := []struct {
		name    string
		payload string
	}{
		{name: "new address", payload: `{"email":"new@example.com","name":"Alice B."}`},
		{name: "empty string", payload: `{"email":"","name":"Alice B."}`},
		{name: "null value", payload: `{"email":null,"name":"Alice B."}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &stubUserRepository{
				findByIDFn: func(context.Context, string) (*domain.User, error) {
					return existing, nil
				},
			}
			router := newProfileRouter(users, existing.ID)

			rec := patchProfile(router, tc.payload)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", rec.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != domain.MsgEmailImmutable {
				t.Fatalf("message = %q", body.Error)
			}
			if users.updateCalls != 0 {
				t.Fatalf("update reached the store %d times", users.updateCalls)
			}
		})
	}
}

func TestUpdateProfileWithoutEmailKeySucceeds(t *testing.T) {
	existing := profileTestUser()
	bio := "Likes distributed systems."
	updated := *existing
	updated.Name = "Alice B."
	updated.Bio = &bio

	users := &stubUserRepository{
		findByIDFn: func(context.Context, string) (*domain.User, error) {
			return existing, nil
		},
		updateFn: func(_ context.Context, _ string, update domain.ProfileUpdate) (*domain.User, error) {
			if update.Email != nil {
				t.Fatalf("email update reached the store: %q", *update.Email)
			}
			return &updated, nil
		},
	}
	router := newProfileRouter(users, existing.ID)

	rec := patchProfile(router, `{"name":"Alice B.","bio":"Likes distributed systems."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var summary UserSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if summary.Name != "Alice B." {
		t.Fatalf("name = %q", summary.Name)
	}
}

func TestUpdateProfileRequiresAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := usecase.NewProfileService(&stubUserRepository{}, nil)
	handler := NewProfileHandler(svc)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"), nil)

	rec := patchProfile(router, `{"name":"Alice B."}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}
