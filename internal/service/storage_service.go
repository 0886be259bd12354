package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/soaringlab/flightlog-backend-go/internal/models"
	"github.com/soaringlab/flightlog-backend-go/internal/repository"
)

// StorageService persists uploaded track files to the local file store and
// hands out durable URLs for them
type StorageService struct {
	dir     string
	baseURL string
	uploads *repository.UploadRepository
}

// NewStorageService creates a new storage service
func NewStorageService(dir, baseURL string, uploads *repository.UploadRepository) *StorageService {
	return &StorageService{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), uploads: uploads}
}

// Store writes the file under a fresh name and records it. The returned
// upload carries the durable URL the file is served under.
func (s *StorageService) Store(userID, fileName string, data []byte) (*models.Upload, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	id := uuid.NewString()
	storedName := id + sanitizeExt(fileName)
	if err := os.WriteFile(filepath.Join(s.dir, storedName), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	upload := &models.Upload{
		ID:        id,
		UserID:    userID,
		FileName:  fileName,
		FileURL:   s.baseURL + "/files/" + storedName,
		SizeBytes: int64(len(data)),
	}
	if err := s.uploads.Create(upload); err != nil {
		return nil, err
	}
	return upload, nil
}

// GetUpload retrieves one upload record, or nil when absent
func (s *StorageService) GetUpload(id string) (*models.Upload, error) {
	return s.uploads.GetByID(id)
}

// Dir returns the directory stored files live in
func (s *StorageService) Dir() string {
	return s.dir
}

func sanitizeExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".igc", ".csv", ".zip":
		return ext
	default:
		return ""
	}
}
