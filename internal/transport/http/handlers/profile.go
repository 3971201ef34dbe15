package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/transport/http/middleware"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

// ProfileHandler exposes the authenticated profile endpoints.
type ProfileHandler struct {
	profile *usecase.ProfileService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profile *usecase.ProfileService) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

// RegisterRoutes binds profile routes. The auth middleware must run first so
// the user ID is present in the context.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	group := r.Group("/profile")
	if authMiddleware != nil {
		group.Use(authMiddleware)
	}
	group.GET("", h.get)
	group.PATCH("", h.update)
}

func (h *ProfileHandler) get(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.profile.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserSummary(user))
}

func (h *ProfileHandler) update(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	var req ProfileUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	// An email key is rejected even when its value is null, so key presence
	// has to be read off the raw payload; the typed struct cannot tell
	// "email": null apart from an absent key.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}
	if _, hasEmail := keys["email"]; hasEmail && req.Email == nil {
		req.Email = new(string)
	}

	user, err := h.profile.UpdateProfile(c.Request.Context(), userID, domain.ProfileUpdate{
		Email: req.Email,
		Name:  req.Name,
		Bio:   req.Bio,
	})
	if err != nil {
		RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserSummary(user))
}
