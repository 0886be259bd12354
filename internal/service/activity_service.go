package service

import (
	"github.com/soaringlab/flightlog-backend-go/internal/models"
	"github.com/soaringlab/flightlog-backend-go/internal/repository"
)

// ActivityService handles business logic for the flight activity feed
type ActivityService struct {
	repo *repository.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(repo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Get retrieves one activity by ID, or nil when absent
func (s *ActivityService) Get(id int64) (*models.Activity, error) {
	return s.repo.GetByID(id)
}

// List retrieves activities with filtering and pagination
func (s *ActivityService) List(filter models.ActivityFilter) (*models.ActivitiesResponse, error) {
	activities, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	return &models.ActivitiesResponse{
		Data:       activities,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}
