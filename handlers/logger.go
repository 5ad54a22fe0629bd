package handlers

import (
	"garagedesk/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped Zap logger from the Gin context.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(middleware.ContextLogger); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}

// currentUser returns the account id set by RequireAuth.
func currentUser(c *gin.Context) (string, bool) {
	uid := c.GetString(middleware.ContextUserID)
	return uid, uid != ""
}
