// Package scoring models the output of the external route-optimization
// solver. The solver itself is a black box; this package depends only on the
// shape of its result and provides an HTTP client for a remote instance.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/soaringlab/flightlog-backend-go/internal/models"
)

// TurnPoint is one point on the optimal route: projected coordinates plus
// the index of the originating fix in the track's fix sequence
type TurnPoint struct {
	X float64 `json:"x"` // longitude
	Y float64 `json:"y"` // latitude
	R int     `json:"r"` // fix index
}

// Leg is one scored leg between consecutive turnpoints
type Leg struct {
	D      float64   `json:"d"` // km
	Finish TurnPoint `json:"finish"`
}

// Endpoints marks the scoring start/finish fixes (open-distance rules)
type Endpoints struct {
	Start  TurnPoint `json:"start"`
	Finish TurnPoint `json:"finish"`
}

// ClosingPoints marks the closing in/out fixes (triangle rules)
type ClosingPoints struct {
	In  TurnPoint `json:"in"`
	Out TurnPoint `json:"out"`
}

// Result is the optimizer's output for one track. Index references (R) point
// back into the fix sequence of the track the solver was given; pairing a
// result with a different track is a contract violation.
type Result struct {
	RuleName      string         `json:"ruleName"`
	Distance      float64        `json:"distance"` // km
	Score         float64        `json:"score"`
	Multiplier    float64        `json:"multiplier,omitempty"`
	TurnPoints    []TurnPoint    `json:"tp"`
	Legs          []Leg          `json:"legs"`
	ClosingPoints *ClosingPoints `json:"cp,omitempty"`
	Endpoints     *Endpoints     `json:"ep,omitempty"`
}

// Solver computes a scoring result for a parsed track
type Solver interface {
	Solve(ctx context.Context, track *models.FlightTrack) (*Result, error)
}

// HTTPSolver calls a remote optimizer service
type HTTPSolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSolver creates a solver client for the given base URL
func NewHTTPSolver(baseURL string) *HTTPSolver {
	return &HTTPSolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type solveRequest struct {
	Date  string       `json:"date,omitempty"`
	Fixes []models.Fix `json:"fixes"`
}

// Solve submits the track's fixes and decodes the optimizer's result
func (s *HTTPSolver) Solve(ctx context.Context, track *models.FlightTrack) (*Result, error) {
	body, err := json.Marshal(solveRequest{Date: track.Date, Fixes: track.Fixes})
	if err != nil {
		return nil, fmt.Errorf("failed to encode solve request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/solve", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build solve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solver request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solver returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode solver response: %w", err)
	}
	if len(result.TurnPoints) == 0 {
		return nil, fmt.Errorf("solver returned no turnpoints")
	}
	return &result, nil
}
