package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soaringlab/flightlog-backend-go/internal/models"
)

// ActivityRepository handles database operations for flight activities
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts an activity and returns its ID
func (r *ActivityRepository) Create(a *models.Activity) (int64, error) {
	statsJSON := sql.NullString{}
	if a.Stats != nil {
		encoded, err := json.Marshal(a.Stats)
		if err != nil {
			return 0, fmt.Errorf("failed to encode activity stats: %w", err)
		}
		statsJSON = sql.NullString{String: string(encoded), Valid: true}
	}

	result, err := r.db.Exec(`
		INSERT INTO activities (user_id, fingerprint, flight_date, file_url, text, stats_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Fingerprint, a.FlightDate, a.FileURL, a.Text, statsJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted activity id: %w", err)
	}
	return id, nil
}

// ExistsByFingerprint reports whether the user already has an activity with
// the given content fingerprint
func (r *ActivityRepository) ExistsByFingerprint(userID, fingerprint string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM activities WHERE user_id = ? AND fingerprint = ?",
		userID, fingerprint,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check fingerprint: %w", err)
	}
	return count > 0, nil
}

// GetByID retrieves one activity, or nil when absent
func (r *ActivityRepository) GetByID(id int64) (*models.Activity, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, fingerprint, flight_date, file_url, text, stats_json, created_at
		FROM activities WHERE id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	activities, err := scanActivities(rows)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, nil
	}
	return &activities[0], nil
}

// GetByFlightDate retrieves the user's activities on one flight date
func (r *ActivityRepository) GetByFlightDate(userID, flightDate string) ([]models.Activity, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, fingerprint, flight_date, file_url, text, stats_json, created_at
		FROM activities
		WHERE user_id = ? AND flight_date = ?`,
		userID, flightDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities by date: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// List retrieves activities with filtering and pagination
func (r *ActivityRepository) List(filter models.ActivityFilter) ([]models.Activity, int64, error) {
	query := `SELECT id, user_id, fingerprint, flight_date, file_url, text, stats_json, created_at
		FROM activities`

	var conditions []string
	var args []interface{}

	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.FromDate != "" {
		conditions = append(conditions, "flight_date >= ?")
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		conditions = append(conditions, "flight_date <= ?")
		args = append(args, filter.ToDate)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM activities"
	if len(conditions) > 0 {
		countQuery += " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	if filter.PageSize > 500 {
		filter.PageSize = 500
	}

	offset := (filter.Page - 1) * filter.PageSize
	query += " ORDER BY flight_date DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	activities, err := scanActivities(rows)
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

func scanActivities(rows *sql.Rows) ([]models.Activity, error) {
	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		var flightDate, fileURL, text, statsJSON, createdAt sql.NullString
		err := rows.Scan(&a.ID, &a.UserID, &a.Fingerprint, &flightDate, &fileURL, &text, &statsJSON, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.FlightDate = flightDate.String
		a.FileURL = fileURL.String
		a.Text = text.String
		a.CreatedAt = createdAt.String

		if statsJSON.Valid && statsJSON.String != "" {
			var stats models.FlightStatistics
			if err := json.Unmarshal([]byte(statsJSON.String), &stats); err != nil {
				return nil, fmt.Errorf("failed to decode activity stats: %w", err)
			}
			a.Stats = &stats
		}

		activities = append(activities, a)
	}
	return activities, rows.Err()
}
