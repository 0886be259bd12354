// Package flightstats derives the statistics bundle for a parsed flight
// track paired with an externally computed scoring result.
package flightstats

import (
	"fmt"
	"math"
	"time"

	"github.com/soaringlab/flightlog-backend-go/internal/geo"
	"github.com/soaringlab/flightlog-backend-go/internal/models"
	"github.com/soaringlab/flightlog-backend-go/internal/scoring"
	"github.com/soaringlab/flightlog-backend-go/internal/spatial"
)

const (
	// Centered smoothing window applied to altitude before gain accumulation.
	smoothWindowSeconds = 10
	// Positive altitude deltas below this are treated as sensor jitter.
	gainNoiseThresholdM = 0.5
	// Forward-scan horizon for climb/sink rates.
	rateWindowSeconds = 30
	// Fix-count window for the max-speed scan.
	speedWindowFixes = 15
)

// Engine computes flight statistics. The tagger is optional; without it the
// region/country tags stay empty.
type Engine struct {
	tagger *geo.Tagger
}

// NewEngine creates a statistics engine
func NewEngine(tagger *geo.Tagger) *Engine {
	return &Engine{tagger: tagger}
}

// Compute derives the full statistics bundle. track.Fixes and sc.TurnPoints
// must be non-empty and every index reference in sc must fall inside
// track.Fixes; a violation means the scoring result belongs to a different
// track and panics rather than producing silently wrong numbers.
func (e *Engine) Compute(track *models.FlightTrack, sc *scoring.Result) *models.FlightStatistics {
	if len(track.Fixes) == 0 {
		panic("flightstats: empty fix sequence")
	}
	if len(sc.TurnPoints) == 0 {
		panic("flightstats: scoring result has no turnpoints")
	}

	fixes := track.Fixes
	first := fixes[0]
	last := fixes[len(fixes)-1]

	durationS := float64(last.Timestamp-first.Timestamp) / 1000
	maxAltitude := first.GPSAltitude
	for _, f := range fixes {
		maxAltitude = math.Max(maxAltitude, f.GPSAltitude)
	}

	totalDistance, altitudeGain := distanceAndGain(fixes)
	maxClimb, maxSink := maxRates(fixes)
	maxSpeed := maxWindowSpeed(fixes)

	routeDurationS := routeDuration(fixes, sc)
	avgSpeed := 0.0
	if routeDurationS > 0 {
		avgSpeed = scoredRouteDistance(sc) / (routeDurationS / 3600)
	}

	freeLegs, routeLegs, totalLegDistance := legBreakdown(fixes, sc)

	freeDistanceAvgSpeed := 0.0
	if durationS > 0 {
		freeDistanceAvgSpeed = totalLegDistance / (durationS / 3600)
	}

	points := routePoints(fixes, sc)

	stats := &models.FlightStatistics{
		Date:             track.Date,
		Pilot:            track.Pilot,
		Site:             track.Site,
		GliderType:       track.GliderType,
		CompetitionClass: track.CompetitionClass,
		Classification:   sc.RuleName,
		Score:            sc.Score,

		RouteDistance: sc.Distance,
		TotalDistance: round2(totalDistance),
		FreeDistance:  round2(totalLegDistance),

		DurationS:      durationS,
		FlightDuration: FormatDuration(durationS),
		StartTime:      FormatClockTime(first.Timestamp),
		EndTime:        FormatClockTime(last.Timestamp),

		AvgSpeed:             round2(avgSpeed),
		FreeDistanceAvgSpeed: round2(freeDistanceAvgSpeed),
		MaxSpeed:             round2(maxSpeed),
		MaxClimb:             round1(maxClimb),
		MaxSink:              round1(maxSink),

		MaxAltitude:     maxAltitude,
		MaxAltitudeGain: round1(altitudeGain),
		LaunchAltitude:  first.GPSAltitude,
		LandingAltitude: last.GPSAltitude,

		Points:          points,
		RouteLegDetails: routeLegs,
		FreeLegDetails:  freeLegs,
	}
	if routeDurationS > 0 {
		stats.RouteDuration = FormatDuration(routeDurationS)
	}

	if e.tagger != nil {
		coords := make([][2]float64, len(points))
		for i, p := range points {
			coords[i] = [2]float64{p.Latitude, p.Longitude}
		}
		stats.Regions, stats.Countries = e.tagger.Tag(coords)
	}

	return stats
}

// distanceAndGain accumulates the pairwise track distance and the cumulative
// altitude gain over the smoothed altitude profile. Smoothing suppresses the
// gain a raw consecutive-sample difference would credit to sensor jitter.
func distanceAndGain(fixes []models.Fix) (totalKm, gainM float64) {
	smoothed := smoothAltitude(fixes, smoothWindowSeconds)
	for i := 1; i < len(fixes); i++ {
		delta := smoothed[i] - smoothed[i-1]
		if delta > gainNoiseThresholdM {
			gainM += delta
		}
		totalKm += spatial.HaversineKm(
			fixes[i-1].Latitude, fixes[i-1].Longitude,
			fixes[i].Latitude, fixes[i].Longitude,
		)
	}
	return totalKm, gainM
}

// smoothAltitude averages altitude over a centered time window per fix
func smoothAltitude(fixes []models.Fix, windowSeconds float64) []float64 {
	windowMs := int64(windowSeconds * 1000)
	smoothed := make([]float64, len(fixes))
	lo := 0
	hi := 0
	var sum float64
	for i, f := range fixes {
		tStart := f.Timestamp - windowMs/2
		tEnd := f.Timestamp + windowMs/2
		for hi < len(fixes) && fixes[hi].Timestamp <= tEnd {
			sum += fixes[hi].GPSAltitude
			hi++
		}
		for lo < len(fixes) && fixes[lo].Timestamp < tStart {
			sum -= fixes[lo].GPSAltitude
			lo++
		}
		if hi > lo {
			smoothed[i] = sum / float64(hi-lo)
		} else {
			smoothed[i] = f.GPSAltitude
		}
	}
	return smoothed
}

// maxRates scans forward from each fix to the first fix at least
// rateWindowSeconds later and tracks the extreme climb and sink rates.
// Sink is returned as a positive number.
func maxRates(fixes []models.Fix) (maxClimb, maxSink float64) {
	climb := math.Inf(-1)
	sink := math.Inf(1)
	windowMs := int64(rateWindowSeconds * 1000)

	end := 0
	for i := range fixes {
		if end < i {
			end = i
		}
		for end < len(fixes) && fixes[end].Timestamp-fixes[i].Timestamp < windowMs {
			end++
		}
		if end >= len(fixes) {
			break
		}
		elapsed := float64(fixes[end].Timestamp-fixes[i].Timestamp) / 1000
		if elapsed <= 0 {
			continue
		}
		rate := (fixes[end].GPSAltitude - fixes[i].GPSAltitude) / elapsed
		if rate > 0 {
			climb = math.Max(climb, rate)
		} else {
			sink = math.Min(sink, rate)
		}
	}

	if math.IsInf(climb, -1) {
		climb = 0
	}
	if math.IsInf(sink, 1) {
		sink = 0
	}
	return climb, -sink
}

// maxWindowSpeed slides a fixed-size fix window over the track. The window
// is fix-count based, so irregular sample rates bias the result; accepted.
func maxWindowSpeed(fixes []models.Fix) float64 {
	if len(fixes) < speedWindowFixes {
		return 0
	}
	maxSpeed := 0.0
	for i := 0; i+speedWindowFixes <= len(fixes); i++ {
		var windowKm float64
		var windowS float64
		for j := i; j < i+speedWindowFixes-1; j++ {
			windowKm += spatial.HaversineKm(
				fixes[j].Latitude, fixes[j].Longitude,
				fixes[j+1].Latitude, fixes[j+1].Longitude,
			)
			windowS += float64(fixes[j+1].Timestamp-fixes[j].Timestamp) / 1000
		}
		if windowS <= 0 {
			continue
		}
		speed := windowKm / (windowS / 3600)
		maxSpeed = math.Max(maxSpeed, speed)
	}
	return maxSpeed
}

// routeDuration is the elapsed time between the scoring start/finish markers
func routeDuration(fixes []models.Fix, sc *scoring.Result) float64 {
	if sc.Endpoints != nil {
		return float64(fixes[sc.Endpoints.Finish.R].Timestamp-fixes[sc.Endpoints.Start.R].Timestamp) / 1000
	}
	if sc.ClosingPoints != nil {
		return float64(fixes[sc.ClosingPoints.Out.R].Timestamp-fixes[sc.ClosingPoints.In.R].Timestamp) / 1000
	}
	return 0
}

// scoredRouteDistance prefers score/multiplier over the raw distance so the
// average speed reflects the scored route
func scoredRouteDistance(sc *scoring.Result) float64 {
	if sc.Multiplier > 0 {
		return sc.Score / sc.Multiplier
	}
	return sc.Distance
}

// legBreakdown accumulates the free-route legs (start to first turnpoint,
// the scored legs, the final glide to landing) and the scored legs alone.
// The final glide is reported as a detail row but excluded from the total.
func legBreakdown(fixes []models.Fix, sc *scoring.Result) (freeLegs, routeLegs []models.LegDetail, totalKm float64) {
	start := fixes[0]
	end := fixes[len(fixes)-1]
	tp0 := sc.TurnPoints[0]

	totalKm = spatial.HaversineKm(start.Latitude, start.Longitude, tp0.Y, tp0.X)
	for _, leg := range sc.Legs {
		totalKm += leg.D
	}

	addLeg := func(list []models.LegDetail, length, total float64) []models.LegDetail {
		percent := 0.0
		if total > 0 {
			percent = length / total * 100
		}
		return append(list, models.LegDetail{Length: round2(length), PercentOfRoute: round2(percent)})
	}

	firstLeg := spatial.HaversineKm(start.Latitude, start.Longitude, tp0.Y, tp0.X)
	freeLegs = addLeg(freeLegs, firstLeg, totalKm)

	lastTP := tp0
	for _, leg := range sc.Legs {
		routeLegs = addLeg(routeLegs, leg.D, sc.Distance)
		freeLegs = addLeg(freeLegs, leg.D, totalKm)
		lastTP = leg.Finish
	}

	finalLeg := spatial.HaversineKm(lastTP.Y, lastTP.X, end.Latitude, end.Longitude)
	freeLegs = addLeg(freeLegs, finalLeg, totalKm)

	return freeLegs, routeLegs, totalKm
}

// routePoints builds the ordered, labeled waypoint list: track start, the
// entry marker, each turnpoint, the exit marker, track end
func routePoints(fixes []models.Fix, sc *scoring.Result) []models.Point {
	points := []models.Point{fixPoint("Start", fixes[0])}

	if sc.ClosingPoints != nil {
		points = append(points, markerPoint("CP In", sc.ClosingPoints.In, fixes))
	} else if sc.Endpoints != nil {
		points = append(points, markerPoint("EP Start", sc.Endpoints.Start, fixes))
	}

	for i, tp := range sc.TurnPoints {
		points = append(points, markerPoint(fmt.Sprintf("TP%d", i+1), tp, fixes))
	}

	if sc.ClosingPoints != nil {
		points = append(points, markerPoint("CP Out", sc.ClosingPoints.Out, fixes))
	} else if sc.Endpoints != nil {
		points = append(points, markerPoint("EP Finish", sc.Endpoints.Finish, fixes))
	}

	points = append(points, fixPoint("End", fixes[len(fixes)-1]))
	return points
}

func fixPoint(label string, f models.Fix) models.Point {
	return models.Point{
		Label:     label,
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		Altitude:  f.GPSAltitude,
		Time:      FormatClockTime(f.Timestamp),
	}
}

func markerPoint(label string, tp scoring.TurnPoint, fixes []models.Fix) models.Point {
	fix := fixes[tp.R]
	return models.Point{
		Label:     label,
		Latitude:  tp.Y,
		Longitude: tp.X,
		Altitude:  fix.GPSAltitude,
		Time:      FormatClockTime(fix.Timestamp),
	}
}

// FormatDuration renders seconds as "<H>h <M>m", omitting zero hours
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0m"
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatClockTime renders a millisecond timestamp as HH:MM:SS UTC
func FormatClockTime(timestampMs int64) string {
	return time.UnixMilli(timestampMs).UTC().Format("15:04:05")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
