package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soaringlab/flightlog-backend-go/internal/middleware"
	"github.com/soaringlab/flightlog-backend-go/internal/models"
	"github.com/soaringlab/flightlog-backend-go/internal/service"
	"github.com/soaringlab/flightlog-backend-go/pkg/response"
)

// ImportHandler handles HTTP requests for the flight import pipeline
type ImportHandler struct {
	service *service.ImportService
}

// NewImportHandler creates a new import handler
func NewImportHandler(service *service.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

// ParseFiles handles POST /api/v1/import/files. Accepts multipart uploads
// under the "files" field and returns one parse result per file or archive
// entry.
func (h *ImportHandler) ParseFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "Invalid multipart form", err)
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.BadRequest(c, "No files provided", nil)
		return
	}

	var files []service.UploadedFile
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			response.InternalError(c, "Failed to read upload", err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			response.InternalError(c, "Failed to read upload", err)
			return
		}
		files = append(files, service.UploadedFile{Name: fh.Filename, Data: data})
	}

	results := h.service.ParseFiles(c.Request.Context(), middleware.UserID(c), files)
	response.Success(c, gin.H{"results": results})
}

// Preview handles POST /api/v1/import/preview
func (h *ImportHandler) Preview(c *gin.Context) {
	var req models.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid preview request", err)
		return
	}
	req.UserID = middleware.UserID(c)

	resp, err := h.service.Preview(&req)
	if err != nil {
		response.InternalError(c, "Failed to preview import", err)
		return
	}

	response.Success(c, resp)
}

// Commit handles POST /api/v1/import/commit
func (h *ImportHandler) Commit(c *gin.Context) {
	var req models.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid commit request", err)
		return
	}
	req.UserID = middleware.UserID(c)

	if len(req.Items) == 0 {
		response.BadRequest(c, "No items to commit", nil)
		return
	}

	resp, err := h.service.Commit(&req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to commit import", err)
		return
	}

	response.Success(c, resp)
}
