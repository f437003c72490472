package handlers

import (
	"errors"
	"net/http"

	"github.com/getmentor/mentor-application-api/internal/middleware"
	"github.com/getmentor/mentor-application-api/internal/services"
	apperrors "github.com/getmentor/mentor-application-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondServiceError maps an application service error to a status code.
// A draft that no longer exists also clears the session cookie so the form
// can start over.
func respondServiceError(c *gin.Context, service services.ApplicationServiceInterface, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		middleware.ClearSessionCookie(c, service.GetCookieDomain(), service.GetCookieSecure())
		respondError(c, http.StatusNotFound, "Application draft not found or expired", err)
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, "Application already submitted", err)
	case errors.Is(err, apperrors.ErrInvalidInput):
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid input", err.Error(), err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
