package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/soaringlab/flightlog-backend-go/internal/database"
	"github.com/soaringlab/flightlog-backend-go/internal/middleware"
	"github.com/soaringlab/flightlog-backend-go/internal/models"
	"github.com/soaringlab/flightlog-backend-go/internal/repository"
	"github.com/soaringlab/flightlog-backend-go/internal/service"
)

const testSecret = "test-secret"

func newActivityRouter(t *testing.T) (*gin.Engine, *repository.ActivityRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// a second pooled connection would see a fresh in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	repo := repository.NewActivityRepository(db)
	h := NewActivityHandler(service.NewActivityService(repo))

	r := gin.New()
	api := r.Group("/api/v1", middleware.Auth(testSecret))
	api.GET("/activities", h.List)
	api.GET("/activities/:id", h.Get)
	return r, repo
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestActivityListRequiresAuth(t *testing.T) {
	r, _ := newActivityRouter(t)

	rec := doGet(r, "/api/v1/activities", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doGet(r, "/api/v1/activities", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActivityListReturnsOwnFeed(t *testing.T) {
	r, repo := newActivityRouter(t)

	_, err := repo.Create(&models.Activity{
		UserID: "alice", Fingerprint: "f1", FlightDate: "2025-02-10",
		Stats: &models.FlightStatistics{Date: "2025-02-10", RouteDistance: 42.5},
	})
	require.NoError(t, err)
	_, err = repo.Create(&models.Activity{UserID: "bob", Fingerprint: "f2", FlightDate: "2025-02-11"})
	require.NoError(t, err)

	rec := doGet(r, "/api/v1/activities", signToken(t, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Code int                       `json:"code"`
		Data models.ActivitiesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, int64(1), body.Data.Total)
	require.Len(t, body.Data.Data, 1)
	assert.Equal(t, "alice", body.Data.Data[0].UserID)
	require.NotNil(t, body.Data.Data[0].Stats)
	assert.Equal(t, 42.5, body.Data.Data[0].Stats.RouteDistance)
}

func TestActivityGetHidesOtherUsers(t *testing.T) {
	r, repo := newActivityRouter(t)

	id, err := repo.Create(&models.Activity{
		UserID: "alice", Fingerprint: "f1", FlightDate: "2025-02-10",
	})
	require.NoError(t, err)

	rec := doGet(r, "/api/v1/activities/"+itoa(id), signToken(t, "alice"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// foreign activities look like missing ones
	rec = doGet(r, "/api/v1/activities/"+itoa(id), signToken(t, "bob"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doGet(r, "/api/v1/activities/99999", signToken(t, "alice"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doGet(r, "/api/v1/activities/oops", signToken(t, "alice"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
