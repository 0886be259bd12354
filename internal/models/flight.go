package models

// Fix represents one GPS sample from a flight-recorder track log
type Fix struct {
	Timestamp   int64   `json:"timestamp"` // Unix timestamp in milliseconds
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	GPSAltitude float64 `json:"gpsAltitude"` // meters
}

// FlightTrack represents a parsed track log: an ordered fix sequence plus
// header metadata. Fixes are ordered by non-decreasing timestamp.
type FlightTrack struct {
	Fixes            []Fix  `json:"fixes"`
	Date             string `json:"date,omitempty"` // YYYY-MM-DD
	Pilot            string `json:"pilot,omitempty"`
	GliderType       string `json:"gliderType,omitempty"`
	Site             string `json:"site,omitempty"`
	CompetitionClass string `json:"competitionClass,omitempty"`
}

// Point is a named waypoint on the scored route
type Point struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
	Time      string  `json:"time,omitempty"` // HH:MM:SS UTC
}

// LegDetail describes one leg of the scored route
type LegDetail struct {
	Length         float64 `json:"length"`         // km
	PercentOfRoute float64 `json:"percentOfRoute"` // 0-100
}

// FlightStatistics is the computed statistics bundle for one track.
// Distances are in kilometers, speeds in km/h, altitudes in meters,
// climb/sink rates in m/s. Zero values mean the field is absent.
type FlightStatistics struct {
	Date             string  `json:"date,omitempty"` // YYYY-MM-DD
	Pilot            string  `json:"pilot,omitempty"`
	Site             string  `json:"site,omitempty"`
	GliderType       string  `json:"gliderType,omitempty"`
	CompetitionClass string  `json:"competitionClass,omitempty"`
	Classification   string  `json:"classification,omitempty"`
	Score            float64 `json:"score"`

	RouteDistance float64 `json:"routeDistance"`
	TotalDistance float64 `json:"totalDistance"`
	// FreeDistance is the sum of the free legs between named waypoints,
	// excluding the final leg into the landing point.
	FreeDistance float64 `json:"freeDistance"`

	DurationS      float64 `json:"duration_s"`
	FlightDuration string  `json:"flightDuration"`
	RouteDuration  string  `json:"routeDuration,omitempty"`
	StartTime      string  `json:"start_time,omitempty"` // HH:MM:SS
	EndTime        string  `json:"end_time,omitempty"`   // HH:MM:SS

	AvgSpeed             float64 `json:"avgSpeed"`
	FreeDistanceAvgSpeed float64 `json:"freeDistanceAvgSpeed"`
	MaxSpeed             float64 `json:"maxSpeed"`
	MaxClimb             float64 `json:"maxClimb"`
	MaxSink              float64 `json:"maxSink"` // reported positive

	MaxAltitude     float64 `json:"maxAltitude"`
	MaxAltitudeGain float64 `json:"maxAltitudeGain"`
	LaunchAltitude  float64 `json:"launchAltitude"`
	LandingAltitude float64 `json:"landingAltitude"`

	Points          []Point     `json:"points,omitempty"`
	RouteLegDetails []LegDetail `json:"routeLegDetails,omitempty"`
	FreeLegDetails  []LegDetail `json:"freeLegDetails,omitempty"`
	Regions         []string    `json:"regions,omitempty"`
	Countries       []string    `json:"countries,omitempty"`
}
