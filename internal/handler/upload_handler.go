package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/soaringlab/flightlog-backend-go/internal/middleware"
	"github.com/soaringlab/flightlog-backend-go/internal/service"
	"github.com/soaringlab/flightlog-backend-go/pkg/response"
)

// UploadHandler handles direct file uploads outside the import pipeline
type UploadHandler struct {
	storage *service.StorageService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(storage *service.StorageService) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// Upload handles POST /api/v1/uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file provided", err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, "Failed to read upload", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c, "Failed to read upload", err)
		return
	}

	upload, err := h.storage.Store(middleware.UserID(c), fh.Filename, data)
	if err != nil {
		response.InternalError(c, "Failed to store file", err)
		return
	}

	response.Success(c, upload)
}

// Get handles GET /api/v1/uploads/:id
func (h *UploadHandler) Get(c *gin.Context) {
	upload, err := h.storage.GetUpload(c.Param("id"))
	if err != nil {
		response.InternalError(c, "Failed to get upload", err)
		return
	}
	if upload == nil {
		response.NotFound(c, "Upload not found")
		return
	}

	response.Success(c, upload)
}
