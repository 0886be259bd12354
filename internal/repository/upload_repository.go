package repository

import (
	"database/sql"
	"fmt"

	"github.com/soaringlab/flightlog-backend-go/internal/models"
)

// UploadRepository tracks stored track files
type UploadRepository struct {
	db *sql.DB
}

// NewUploadRepository creates a new upload repository
func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Create records a stored file
func (r *UploadRepository) Create(u *models.Upload) error {
	_, err := r.db.Exec(`
		INSERT INTO uploads (id, user_id, file_name, file_url, size_bytes)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.UserID, u.FileName, u.FileURL, u.SizeBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}
	return nil
}

// GetByID retrieves one upload record, or nil when absent
func (r *UploadRepository) GetByID(id string) (*models.Upload, error) {
	var u models.Upload
	err := r.db.QueryRow(`
		SELECT id, user_id, file_name, file_url, size_bytes, created_at
		FROM uploads WHERE id = ?`, id,
	).Scan(&u.ID, &u.UserID, &u.FileName, &u.FileURL, &u.SizeBytes, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query upload: %w", err)
	}
	return &u, nil
}
