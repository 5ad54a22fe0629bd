package middleware

import (
	"net/http"
	"strings"

	"garagedesk/services/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by RequireAuth.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
)

// bearerToken reads the Authorization header, falling back to the session cookie.
func bearerToken(c *gin.Context, cookieName string) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil {
			return v
		}
	}
	return ""
}

// RequireAuth verifies the caller's token with the identity provider.
func RequireAuth(verifier identity.Verifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c, cookieName)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		id, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if logger, ok := c.Get(ContextLogger); ok {
				logger.(*zap.Logger).Debug("token rejected", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextUserID, id.UID)
		c.Set(ContextUserEmail, id.Email)
		c.Next()
	}
}

// SessionCookieGate turns away requests without any credential before they
// reach a handler. Paths under publicPrefixes pass through. It only checks
// presence; RequireAuth does the verification.
func SessionCookieGate(cookieName string, publicPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range publicPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}
		if bearerToken(c, cookieName) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}
