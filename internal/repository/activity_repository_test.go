package repository

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/soaringlab/flightlog-backend-go/internal/database"
	"github.com/soaringlab/flightlog-backend-go/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// a second pooled connection would see a fresh in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestActivityCreateAndFingerprint(t *testing.T) {
	repo := NewActivityRepository(newTestDB(t))

	id, err := repo.Create(&models.Activity{
		UserID:      "u1",
		Fingerprint: "abc123",
		FlightDate:  "2025-02-10",
		Stats:       &models.FlightStatistics{Date: "2025-02-10", RouteDistance: 42.5},
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	exists, err := repo.ExistsByFingerprint("u1", "abc123")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByFingerprint("u2", "abc123")
	require.NoError(t, err)
	assert.False(t, exists)

	// same fingerprint for the same user is rejected
	_, err = repo.Create(&models.Activity{UserID: "u1", Fingerprint: "abc123"})
	assert.Error(t, err)

	// empty fingerprints never collide
	_, err = repo.Create(&models.Activity{UserID: "u1", Fingerprint: ""})
	require.NoError(t, err)
	_, err = repo.Create(&models.Activity{UserID: "u1", Fingerprint: ""})
	require.NoError(t, err)
}

func TestActivityGetByFlightDate(t *testing.T) {
	repo := NewActivityRepository(newTestDB(t))

	_, err := repo.Create(&models.Activity{
		UserID: "u1", Fingerprint: "f1", FlightDate: "2025-02-10",
		Stats: &models.FlightStatistics{RouteDistance: 40},
	})
	require.NoError(t, err)
	_, err = repo.Create(&models.Activity{UserID: "u1", Fingerprint: "f2", FlightDate: "2025-02-11"})
	require.NoError(t, err)

	activities, err := repo.GetByFlightDate("u1", "2025-02-10")
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.NotNil(t, activities[0].Stats)
	assert.Equal(t, 40.0, activities[0].Stats.RouteDistance)

	activities, err = repo.GetByFlightDate("u1", "2025-01-01")
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestActivityListPagination(t *testing.T) {
	repo := NewActivityRepository(newTestDB(t))

	for i := 0; i < 7; i++ {
		_, err := repo.Create(&models.Activity{
			UserID:      "u1",
			Fingerprint: fmt.Sprintf("f%d", i),
			FlightDate:  fmt.Sprintf("2025-02-%02d", i+1),
		})
		require.NoError(t, err)
	}

	page1, total, err := repo.List(models.ActivityFilter{UserID: "u1", Page: 1, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, page1, 3)
	// newest flight date first
	assert.Equal(t, "2025-02-07", page1[0].FlightDate)

	page3, _, err := repo.List(models.ActivityFilter{UserID: "u1", Page: 3, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	filtered, total, err := repo.List(models.ActivityFilter{UserID: "u1", FromDate: "2025-02-05", ToDate: "2025-02-06"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, filtered, 2)
}
