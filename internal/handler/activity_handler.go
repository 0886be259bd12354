package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soaringlab/flightlog-backend-go/internal/middleware"
	"github.com/soaringlab/flightlog-backend-go/internal/models"
	"github.com/soaringlab/flightlog-backend-go/internal/service"
	"github.com/soaringlab/flightlog-backend-go/pkg/response"
)

// ActivityHandler handles HTTP requests for the activity feed
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(service *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Get handles GET /api/v1/activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid activity ID", err)
		return
	}

	activity, err := h.service.Get(id)
	if err != nil {
		response.InternalError(c, "Failed to get activity", err)
		return
	}
	if activity == nil || activity.UserID != middleware.UserID(c) {
		response.NotFound(c, "Activity not found")
		return
	}

	response.Success(c, activity)
}

// List handles GET /api/v1/activities
func (h *ActivityHandler) List(c *gin.Context) {
	var filter models.ActivityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}
	filter.UserID = middleware.UserID(c)

	resp, err := h.service.List(filter)
	if err != nil {
		response.InternalError(c, "Failed to list activities", err)
		return
	}

	response.Success(c, resp)
}
