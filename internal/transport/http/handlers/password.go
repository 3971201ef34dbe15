package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/infra/telemetry"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

// PasswordHandler exposes the password reset endpoints.
type PasswordHandler struct {
	reset   *usecase.PasswordResetService
	metrics *telemetry.Metrics
}

// NewPasswordHandler constructs PasswordHandler.
func NewPasswordHandler(reset *usecase.PasswordResetService, metrics *telemetry.Metrics) *PasswordHandler {
	return &PasswordHandler{reset: reset, metrics: metrics}
}

// RegisterRoutes binds reset routes under the provided group.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	group := r.Group("/reset")
	if len(middlewares) > 0 {
		group.Use(middlewares...)
	}
	group.POST("/request", h.requestReset)
	group.POST("/confirm", h.confirmReset)
}

// requestReset accepts a reset request. The response never reveals whether the
// email belongs to an account.
func (h *PasswordHandler) requestReset(c *gin.Context) {
	var req ResetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid reset request payload"))
		return
	}

	if err := h.reset.RequestReset(c.Request.Context(), req.Email); err != nil {
		RespondWithDomainError(c, err)
		return
	}

	h.metrics.RecordResetRequested()
	c.JSON(http.StatusAccepted, MessageResponse{
		Message: "If the email exists, a reset link has been sent",
	})
}

func (h *PasswordHandler) confirmReset(c *gin.Context) {
	var req ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid reset confirmation payload"))
		return
	}

	if err := h.reset.CompleteReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		RespondWithDomainError(c, err)
		return
	}

	h.metrics.RecordResetCompleted()
	c.JSON(http.StatusOK, MessageResponse{Message: "Password has been reset"})
}
