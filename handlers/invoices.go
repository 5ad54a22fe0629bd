package handlers

import (
	"net/http"

	"garagedesk/models"

	"github.com/gin-gonic/gin"
)

// ListInvoicesHandler handles GET /api/invoices?status=&type=&clientId=.
func (h *GarageHandler) ListInvoicesHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	invoices, err := h.Garage.ListInvoices(c.Request.Context(), ownerID, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (h *GarageHandler) GetInvoiceHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	inv, err := h.Garage.GetInvoice(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// CreateInvoiceHandler handles POST /api/invoices. Number and totals are
// assigned by the service.
func (h *GarageHandler) CreateInvoiceHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.Invoice
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inv, err := h.Garage.CreateInvoice(c.Request.Context(), ownerID, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// UpdateInvoiceHandler handles PUT /api/invoices/:id (drafts only).
func (h *GarageHandler) UpdateInvoiceHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.Invoice
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inv, err := h.Garage.UpdateInvoice(c.Request.Context(), ownerID, c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *GarageHandler) ChangeInvoiceStatusHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req struct {
		Status models.InvoiceStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inv, err := h.Garage.ChangeInvoiceStatus(c.Request.Context(), ownerID, c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// RecordPaymentHandler handles POST /api/invoices/:id/payments.
func (h *GarageHandler) RecordPaymentHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inv, err := h.Garage.RecordPayment(c.Request.Context(), ownerID, c.Param("id"), req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *GarageHandler) DeleteInvoiceHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	if err := h.Garage.DeleteInvoice(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}
