package jwtmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"auth_backend/internal/api"
)

// ContextUserID is the Gin context key under which the middleware stores the
// authenticated user's ID.
const ContextUserID = "userID"

// CookieName is the name of the session cookie carrying the token.
const CookieName = "token"

// AuthRequired returns a Gin middleware that validates the session cookie and
// restricts access to authenticated users only. The verifier is injected so
// the secret lives in the startup configuration, not in ambient environment
// lookups.
func AuthRequired(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get the session cookie
		tokenStr, err := c.Cookie(CookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail("not authorized, login again"))
			return
		}

		// 2. Verify signature and expiry, resolve the user ID
		userID, err := verifier.VerifyToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail("not authorized, login again"))
			return
		}

		// 3. Expose the user ID to downstream handlers
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user's ID set by AuthRequired.
func UserIDFromContext(c *gin.Context) (string, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}
