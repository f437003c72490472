package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getmentor/mentor-application-api/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const (
	// ApplicationSessionCookieName is the cookie binding a browser to its draft
	ApplicationSessionCookieName = "application_session"

	// DraftIDContextKey is the context key holding the session's draft id
	DraftIDContextKey = "application_draft_id"
)

var ErrSessionNotFound = errors.New("application session not found in context")

// ApplicationSessionMiddleware validates the session cookie and stores the draft id in the context
func ApplicationSessionMiddleware(tokenManager *jwt.TokenManager, cookieDomain string, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(ApplicationSessionCookieName)
		if err != nil || cookie == "" {
			_ = c.Error(fmt.Errorf("missing application session cookie")) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No application in progress"})
			return
		}

		claims, err := tokenManager.ValidateToken(cookie)
		if err != nil {
			_ = c.Error(fmt.Errorf("invalid application session token: %w", err)) //nolint:errcheck
			ClearSessionCookie(c, cookieDomain, cookieSecure)

			if errors.Is(err, jwt.ErrExpiredToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Application session expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			}
			return
		}

		c.Set(DraftIDContextKey, claims.DraftID)
		c.Next()
	}
}

// GetDraftID returns the draft id stored by ApplicationSessionMiddleware
func GetDraftID(c *gin.Context) (string, error) {
	id := c.GetString(DraftIDContextKey)
	if id == "" {
		return "", ErrSessionNotFound
	}
	return id, nil
}

// SetSessionCookie sets the application session cookie
func SetSessionCookie(c *gin.Context, token string, ttlSeconds int, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ApplicationSessionCookieName, token, ttlSeconds, "/", domain, secure, true)
}

// ClearSessionCookie expires the application session cookie
func ClearSessionCookie(c *gin.Context, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ApplicationSessionCookieName, "", -1, "/", domain, secure, true)
}
