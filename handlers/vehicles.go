package handlers

import (
	"net/http"

	"garagedesk/models"

	"github.com/gin-gonic/gin"
)

func (h *GarageHandler) ListVehiclesHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	vehicles, err := h.Garage.ListVehicles(c.Request.Context(), ownerID, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func (h *GarageHandler) GetVehicleHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	vehicle, err := h.Garage.GetVehicle(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// CreateVehicleHandler handles POST /api/vehicles. Refused with 403 once the
// plan's vehicle limit is reached.
func (h *GarageHandler) CreateVehicleHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.Vehicle
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := h.Garage.CreateVehicle(c.Request.Context(), ownerID, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (h *GarageHandler) UpdateVehicleHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.Vehicle
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := h.Garage.UpdateVehicle(c.Request.Context(), ownerID, c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// ChangeVehicleStatusHandler handles PATCH /api/vehicles/:id/status.
func (h *GarageHandler) ChangeVehicleStatusHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req struct {
		Status models.VehicleStatus `json:"status" binding:"required"`
		Note   string               `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := h.Garage.ChangeVehicleStatus(c.Request.Context(), ownerID, c.Param("id"), req.Status, req.Note)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *GarageHandler) DeleteVehicleHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	if err := h.Garage.DeleteVehicle(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}

// UploadVehiclePhotoHandler handles POST /api/vehicles/:id/photos.
func (h *GarageHandler) UploadVehiclePhotoHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	f, in, ok := h.readUpload(c, "photo")
	if !ok {
		return
	}
	defer f.Close()

	photo, err := h.Garage.AddVehiclePhoto(c.Request.Context(), ownerID, c.Param("id"), f, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}
