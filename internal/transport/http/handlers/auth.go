package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/infra/telemetry"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth    *usecase.AuthService
	issuer  *security.TokenIssuer
	metrics *telemetry.Metrics
}

// NewAuthHandler constructs AuthHandler. The issuer and metrics are optional;
// without an issuer login responses omit the access token.
func NewAuthHandler(auth *usecase.AuthService, issuer *security.TokenIssuer, metrics *telemetry.Metrics) *AuthHandler {
	return &AuthHandler{auth: auth, issuer: issuer, metrics: metrics}
}

// RegisterRoutes binds authentication routes, applying optional middleware ahead of handlers.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	chain = append(chain, h.login)
	r.POST("/login", chain...)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordLogin(loginOutcome(err))
		RespondWithDomainError(c, err)
		return
	}

	h.metrics.RecordLogin("success")

	resp := LoginResponse{
		TokenType: "Bearer",
		User:      NewUserSummary(user),
	}

	if h.issuer != nil {
		token, err := h.issuer.Issue(user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error"))
			return
		}
		resp.AccessToken = token
		resp.ExpiresIn = int(h.issuer.TTL().Seconds())
	}

	c.JSON(http.StatusOK, resp)
}

func loginOutcome(err error) string {
	var authErr *domain.AuthenticationError
	if errors.As(err, &authErr) {
		switch {
		case authErr.Locked:
			return "locked"
		case authErr.Message == domain.MsgAuthBackendUnavailable:
			return "unavailable"
		default:
			return "invalid_credentials"
		}
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return "invalid_input"
	}

	return "error"
}
