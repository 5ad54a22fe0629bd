package handlers

import (
	"mime/multipart"
	"net/http"

	garageRepo "garagedesk/database/repository/garage"
	"garagedesk/services/garage"
	"garagedesk/services/storage"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// GarageHandler serves the owner-scoped garage records.
type GarageHandler struct {
	Garage *garage.Service
}

func NewGarageHandler(svc *garage.Service) *GarageHandler {
	return &GarageHandler{Garage: svc}
}

type listParams struct {
	Status     string `form:"status"`
	Type       string `form:"type"`
	ClientID   string `form:"clientId"`
	VehicleID  string `form:"vehicleId"`
	TemplateID string `form:"templateId"`
	Search     string `form:"search"`
	Limit      int64  `form:"limit" binding:"omitempty,min=0"`
	Skip       int64  `form:"skip" binding:"omitempty,min=0"`
}

// bindQuery reads list filters and paging from the query string.
func bindQuery(c *gin.Context) (garageRepo.Query, bool) {
	var p listParams
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return garageRepo.Query{}, false
	}
	if p.Limit == 0 {
		p.Limit = defaultPageSize
	}
	p.Limit = min(p.Limit, maxPageSize)
	return garageRepo.Query{
		Status:     p.Status,
		Type:       p.Type,
		ClientID:   p.ClientID,
		VehicleID:  p.VehicleID,
		TemplateID: p.TemplateID,
		Search:     p.Search,
		Limit:      p.Limit,
		Skip:       p.Skip,
	}, true
}

// owner aborts with 401 when no account is attached to the request.
func owner(c *gin.Context) (string, bool) {
	uid, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return uid, ok
}

func (h *GarageHandler) fail(c *gin.Context, err error) {
	respondError(c, garageStatus(err), err)
}

// readUpload opens the multipart "file" field. On failure the response has
// been written and ok is false; otherwise the caller closes the file.
func (h *GarageHandler) readUpload(c *gin.Context, kind string) (multipart.File, storage.UploadInput, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided"})
		return nil, storage.UploadInput{}, false
	}
	in := storage.UploadInput{Filename: fileHeader.Filename, Kind: kind, Size: fileHeader.Size}
	if err := in.Validate(); err != nil {
		h.fail(c, err)
		return nil, in, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return nil, in, false
	}
	return f, in, true
}
