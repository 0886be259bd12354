package importer

import (
	"math"
	"regexp"
	"strconv"

	"github.com/soaringlab/flightlog-backend-go/internal/models"
)

// Consistency tolerances for CSV/IGC cross-checks. A value passes when the
// absolute difference is inside maxAbs or the relative difference is inside
// maxRatio.
const (
	durationMaxRatio = 0.25
	durationMaxAbsS  = 20 * 60
	distanceMaxRatio = 0.2
	distanceMaxAbsKm = 5
)

// MergeCSVIntoIGC folds a CSV sidecar row's statistics into the statistics
// computed from the matching IGC track. The IGC side always wins; CSV values
// only fill fields the track could not provide (site, pilot, clock times,
// max altitude, waypoints). Before any field is taken, date, duration and
// distance are cross-checked; a single mismatch suppresses the whole merge
// and is reported, because a conflicting sidecar most likely describes a
// different flight.
func MergeCSVIntoIGC(igc, csv *models.FlightStatistics) (*models.FlightStatistics, []string) {
	merged := *igc
	var mismatches []string

	if igc.Date != "" && csv.Date != "" && igc.Date != csv.Date {
		mismatches = append(mismatches, "date mismatch")
	}

	igcDuration := durationSeconds(igc)
	csvDuration := durationSeconds(csv)
	if !NumbersCompatible(igcDuration, csvDuration, durationMaxRatio, durationMaxAbsS) {
		mismatches = append(mismatches, "duration mismatch")
	}

	if !NumbersCompatible(primaryDistance(igc), primaryDistance(csv), distanceMaxRatio, distanceMaxAbsKm) {
		mismatches = append(mismatches, "distance mismatch")
	}

	if len(mismatches) > 0 {
		return &merged, mismatches
	}

	if merged.Site == "" {
		merged.Site = csv.Site
	}
	if merged.Pilot == "" {
		merged.Pilot = csv.Pilot
	}
	if merged.StartTime == "" {
		merged.StartTime = csv.StartTime
	}
	if merged.EndTime == "" {
		merged.EndTime = csv.EndTime
	}
	if merged.MaxAltitude == 0 {
		merged.MaxAltitude = csv.MaxAltitude
	}
	if len(merged.Points) == 0 {
		merged.Points = csv.Points
	}

	return &merged, nil
}

// DistancesCompatible checks two route distances against the standard
// tolerance, for duplicate screening against stored flights
func DistancesCompatible(left, right float64) bool {
	return NumbersCompatible(left, right, distanceMaxRatio, distanceMaxAbsKm)
}

// NumbersCompatible treats a missing value (0) as compatible with anything
func NumbersCompatible(left, right, maxRatio, maxAbs float64) bool {
	if left == 0 || right == 0 {
		return true
	}
	diff := math.Abs(left - right)
	if diff <= maxAbs {
		return true
	}
	return diff/math.Max(left, right) <= maxRatio
}

func durationSeconds(stats *models.FlightStatistics) float64 {
	if stats.DurationS > 0 {
		return stats.DurationS
	}
	return float64(parseDurationText(stats.FlightDuration))
}

func primaryDistance(stats *models.FlightStatistics) float64 {
	if stats.RouteDistance > 0 {
		return stats.RouteDistance
	}
	return stats.FreeDistance
}

var (
	durationClockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	durationWordsRe = regexp.MustCompile(`(?i)(?:(\d+)\s*h)?\s*(\d+)\s*m`)
)

// parseDurationText reads the formatted duration strings stored alongside
// older activities ("2:15:30", "2h 15m", plain seconds)
func parseDurationText(raw string) int {
	if raw == "" {
		return 0
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	if m := durationClockRe.FindStringSubmatch(raw); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds := 0
		if m[3] != "" {
			seconds, _ = strconv.Atoi(m[3])
		}
		return hours*3600 + minutes*60 + seconds
	}
	if m := durationWordsRe.FindStringSubmatch(raw); m != nil {
		hours := 0
		if m[1] != "" {
			hours, _ = strconv.Atoi(m[1])
		}
		minutes, _ := strconv.Atoi(m[2])
		return hours*3600 + minutes*60
	}
	return 0
}
