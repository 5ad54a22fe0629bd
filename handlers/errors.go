package handlers

import (
	"errors"
	"net/http"

	"garagedesk/services/billing"
	"garagedesk/services/garage"
	"garagedesk/services/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func garageStatus(err error) int {
	switch {
	case errors.Is(err, garage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, garage.ErrInvalidInput), errors.Is(err, garage.ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, garage.ErrVehicleLimit):
		return http.StatusForbidden
	case errors.Is(err, garage.ErrInvalidTransition), errors.Is(err, garage.ErrNotEditable), errors.Is(err, garage.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, storage.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, storage.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}

func billingStatus(err error) int {
	var providerErr *billing.ProviderError
	switch {
	case errors.Is(err, billing.ErrInvalidPlan), errors.Is(err, billing.ErrPlanNotPurchasable):
		return http.StatusBadRequest
	case errors.Is(err, billing.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, billing.ErrCheckoutInProgress):
		return http.StatusConflict
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError writes err with status. Server-side failures are logged and
// their details kept out of the response.
func respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		getLogger(c).Error("request failed", zap.Int("status", status), zap.Error(err))
		msg := "Internal server error"
		if status == http.StatusBadGateway {
			msg = "Billing provider unavailable"
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
