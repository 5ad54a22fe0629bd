package handlers

import (
	"net/http"

	"garagedesk/models"

	"github.com/gin-gonic/gin"
)

func (h *GarageHandler) ListRepairOrdersHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	orders, err := h.Garage.ListRepairOrders(c.Request.Context(), ownerID, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repairOrders": orders})
}

func (h *GarageHandler) GetRepairOrderHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	ro, err := h.Garage.GetRepairOrder(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ro)
}

func (h *GarageHandler) CreateRepairOrderHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.RepairOrder
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ro, err := h.Garage.CreateRepairOrder(c.Request.Context(), ownerID, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ro)
}

func (h *GarageHandler) UpdateRepairOrderHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.RepairOrder
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ro, err := h.Garage.UpdateRepairOrder(c.Request.Context(), ownerID, c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ro)
}

// ChangeRepairStatusHandler handles PATCH /api/repairs/:id/status.
func (h *GarageHandler) ChangeRepairStatusHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req struct {
		Status models.RepairStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ro, err := h.Garage.ChangeRepairStatus(c.Request.Context(), ownerID, c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ro)
}
