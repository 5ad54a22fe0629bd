package handlers

import (
	"net/http"

	"garagedesk/models"

	"github.com/gin-gonic/gin"
)

func (h *GarageHandler) ListGuaranteeTemplatesHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	templates, err := h.Garage.ListGuaranteeTemplates(c.Request.Context(), ownerID, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *GarageHandler) CreateGuaranteeTemplateHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.GuaranteeTemplate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tpl, err := h.Garage.CreateGuaranteeTemplate(c.Request.Context(), ownerID, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func (h *GarageHandler) UpdateGuaranteeTemplateHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.GuaranteeTemplate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tpl, err := h.Garage.UpdateGuaranteeTemplate(c.Request.Context(), ownerID, c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *GarageHandler) DeleteGuaranteeTemplateHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	if err := h.Garage.DeleteGuaranteeTemplate(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

// IssueGuaranteeHandler handles POST /api/guarantees.
func (h *GarageHandler) IssueGuaranteeHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req models.IssueGuaranteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.Garage.IssueGuarantee(c.Request.Context(), ownerID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// ListGuaranteesHandler handles GET /api/guarantees?vehicleId=&clientId=&status=.
func (h *GarageHandler) ListGuaranteesHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	guarantees, err := h.Garage.ListGuarantees(c.Request.Context(), ownerID, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guarantees": guarantees})
}

func (h *GarageHandler) GetGuaranteeHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	g, err := h.Garage.GetGuarantee(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GarageHandler) CancelGuaranteeHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	g, err := h.Garage.CancelGuarantee(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
