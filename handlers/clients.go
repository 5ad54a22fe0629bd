package handlers

import (
	"net/http"

	"garagedesk/middleware"
	"garagedesk/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListClientsHandler handles GET /api/clients.
func (h *GarageHandler) ListClientsHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	clients, err := h.Garage.ListClients(c.Request.Context(), ownerID, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// GetClientHandler handles GET /api/clients/:id.
func (h *GarageHandler) GetClientHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	client, err := h.Garage.GetClient(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// CreateClientHandler handles POST /api/clients.
func (h *GarageHandler) CreateClientHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.Client
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := h.Garage.CreateClient(c.Request.Context(), ownerID, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UpdateClientHandler handles PUT /api/clients/:id.
func (h *GarageHandler) UpdateClientHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.Client
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := h.Garage.UpdateClient(c.Request.Context(), ownerID, c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClientHandler handles DELETE /api/clients/:id.
func (h *GarageHandler) DeleteClientHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	if err := h.Garage.DeleteClient(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}

// AddInteractionHandler handles POST /api/clients/:id/interactions.
func (h *GarageHandler) AddInteractionHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var in models.Interaction
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.By == "" {
		in.By = c.GetString(middleware.ContextUserEmail)
	}
	interaction, err := h.Garage.AddInteraction(c.Request.Context(), ownerID, c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, interaction)
}

// UploadClientDocumentHandler handles POST /api/clients/:id/documents
// (multipart field "file", optional "kind").
func (h *GarageHandler) UploadClientDocumentHandler(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	f, in, ok := h.readUpload(c, c.DefaultPostForm("kind", "document"))
	if !ok {
		return
	}
	defer f.Close()

	file, err := h.Garage.AddClientDocument(c.Request.Context(), ownerID, c.Param("id"), f, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	getLogger(c).Info("client document uploaded", zap.String("clientId", c.Param("id")), zap.String("publicId", file.PublicID))
	c.JSON(http.StatusCreated, file)
}
