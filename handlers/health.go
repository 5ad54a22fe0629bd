package handlers

import (
	"net/http"

	"garagedesk/utils"

	"github.com/gin-gonic/gin"
)

// HealthReporter exposes the latest dependency health snapshot.
type HealthReporter interface {
	Status() utils.HealthStatus
}

// NewHealthHandler reports 503 while mongo or redis is unreachable.
func NewHealthHandler(monitor HealthReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := monitor.Status()
		code := http.StatusOK
		state := "ok"
		if !status.Mongo || !status.Redis {
			code = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(code, gin.H{"status": state, "checks": status})
	}
}
