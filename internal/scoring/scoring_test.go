package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringlab/flightlog-backend-go/internal/models"
)

func testTrack() *models.FlightTrack {
	return &models.FlightTrack{
		Date: "2025-02-10",
		Fixes: []models.Fix{
			{Timestamp: 1739181600000, Latitude: 47.2, Longitude: 11.2, GPSAltitude: 1000},
			{Timestamp: 1739181660000, Latitude: 47.3, Longitude: 11.3, GPSAltitude: 1100},
		},
	}
}

func TestHTTPSolverSolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/solve", r.URL.Path)

		var req struct {
			Date  string       `json:"date"`
			Fixes []models.Fix `json:"fixes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2025-02-10", req.Date)
		assert.Len(t, req.Fixes, 2)

		json.NewEncoder(w).Encode(Result{
			RuleName:   "Free Distance",
			Distance:   14.2,
			Score:      14.2,
			TurnPoints: []TurnPoint{{X: 11.3, Y: 47.3, R: 1}},
		})
	}))
	defer server.Close()

	result, err := NewHTTPSolver(server.URL).Solve(context.Background(), testTrack())

	require.NoError(t, err)
	assert.Equal(t, "Free Distance", result.RuleName)
	assert.Equal(t, 14.2, result.Distance)
	require.Len(t, result.TurnPoints, 1)
	assert.Equal(t, 1, result.TurnPoints[0].R)
}

func TestHTTPSolverErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewHTTPSolver(server.URL).Solve(context.Background(), testTrack())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestHTTPSolverEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Result{RuleName: "Free Distance"})
	}))
	defer server.Close()

	_, err := NewHTTPSolver(server.URL).Solve(context.Background(), testTrack())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no turnpoints")
}
