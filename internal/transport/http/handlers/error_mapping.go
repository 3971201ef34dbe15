package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// RespondWithDomainError translates core error types into HTTP responses.
// Validation failures are 400, credential failures 401, lockouts 423,
// duplicate registrations 409, and backend faults during authentication 503.
// Anything unrecognized becomes an opaque 500.
func RespondWithDomainError(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, validationErr.Message))
		return
	}

	var authErr *domain.AuthenticationError
	if errors.As(err, &authErr) {
		switch {
		case authErr.Locked:
			c.JSON(http.StatusLocked, NewErrorResponse(c, authErr.Message))
		case authErr.Message == domain.MsgAuthBackendUnavailable:
			c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, authErr.Message))
		default:
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, authErr.Message))
		}
		return
	}

	var existsErr *domain.UserExistsError
	if errors.As(err, &existsErr) {
		c.JSON(http.StatusConflict, NewErrorResponse(c, existsErr.Message))
		return
	}

	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error"))
}
