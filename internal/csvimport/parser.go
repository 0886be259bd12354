// Package csvimport parses flight-log spreadsheets exported by various
// logbook tools. Header names vary per tool, so columns are resolved
// through an alias table rather than fixed positions.
package csvimport

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/soaringlab/flightlog-backend-go/internal/flightstats"
	"github.com/soaringlab/flightlog-backend-go/internal/models"
)

// Known header spellings per logical field, checked in order
var fieldAliases = map[string][]string{
	"date":        {"date", "flight_date", "flight date", "day"},
	"distance":    {"distance", "distance_km", "distance km", "route_distance", "route_distance_km"},
	"duration":    {"duration", "duration_s", "duration_sec", "flight_duration", "flight duration", "time"},
	"endTime":     {"end_time", "landing_time", "end", "time_end"},
	"igcFileName": {"igc", "igc_file", "igc_filename", "igc_file_name", "track_file", "track_filename"},
	"landing":     {"landing", "landing_name", "landing site", "ldg"},
	"landingLat":  {"landing_lat", "landing_latitude", "ldg_lat", "landing latitude"},
	"landingLng":  {"landing_lng", "landing_longitude", "ldg_lng", "landing longitude"},
	"maxAltitude": {"max_altitude", "max_altitude_m", "max altitude", "altitude_max"},
	"pilot":       {"pilot", "pilot_name", "name"},
	"routeType":   {"route_type", "route", "type"},
	"site":        {"site", "site_name", "takeoff_site", "launch_site"},
	"startTime":   {"start_time", "takeoff_time", "launch_time", "start", "time_start"},
	"takeoff":     {"takeoff", "takeoff_name", "launch", "launch_name", "to"},
	"takeoffLat":  {"takeoff_lat", "takeoff_latitude", "launch_lat", "takeoff latitude"},
	"takeoffLng":  {"takeoff_lng", "takeoff_longitude", "launch_lng", "takeoff longitude"},
}

// Summary is the short per-row digest shown in import previews
type Summary struct {
	Date       string  `json:"date"`
	DistanceKm float64 `json:"distanceKm"`
	Duration   string  `json:"duration,omitempty"`
	Takeoff    string  `json:"takeoff,omitempty"`
	Landing    string  `json:"landing,omitempty"`
}

// Row is one normalized spreadsheet row
type Row struct {
	SourceFile  string                   `json:"csvSourceFile"`
	RowNumber   int                      `json:"csvRowIndex"` // spreadsheet row, header is row 1
	IGCFileName string                   `json:"igcFileName,omitempty"`
	Stats       *models.FlightStatistics `json:"flightStats"`
	Summary     Summary                  `json:"summary"`
	Raw         []string                 `json:"rawRow"`
}

// Tokenize splits CSV text into a header row and data rows. Quoted fields
// may contain commas, newlines and doubled quotes; blank rows are dropped
// and the first non-blank row is the header. Rows may be ragged.
func Tokenize(content string) (headers []string, rows [][]string) {
	var all [][]string
	var row []string
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(content); i++ {
		c := content[i]
		var next byte
		if i+1 < len(content) {
			next = content[i+1]
		}

		switch {
		case c == '"' && inQuotes && next == '"':
			field.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			row = append(row, field.String())
			field.Reset()
		case (c == '\n' || c == '\r') && !inQuotes:
			if c == '\r' && next == '\n' {
				i++
			}
			row = append(row, field.String())
			all = append(all, row)
			row = nil
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	if field.Len() > 0 || len(row) > 0 {
		row = append(row, field.String())
		all = append(all, row)
	}

	nonEmpty := lo.Filter(all, func(r []string, _ int) bool {
		return lo.SomeBy(r, func(v string) bool { return strings.TrimSpace(v) != "" })
	})
	if len(nonEmpty) == 0 {
		return nil, nil
	}

	headers = lo.Map(nonEmpty[0], func(h string, _ int) string { return strings.TrimSpace(h) })
	return headers, nonEmpty[1:]
}

// Normalize parses CSV text into normalized rows. A row without a usable
// date is skipped and reported in errs; one bad row never affects the
// others.
func Normalize(content, sourceFileName string) (normalized []Row, errs []string) {
	headers, rows := Tokenize(content)
	if len(headers) == 0 {
		return nil, []string{"CSV appears empty"}
	}

	fields := buildFieldMap(headers)

	for index, row := range rows {
		rowNumber := index + 2
		date := normalizeDate(rowValue(row, fields["date"]))
		if date == "" {
			errs = append(errs, fmt.Sprintf("Row %d: missing or invalid date", rowNumber))
			continue
		}

		startTime := parseTime(rowValue(row, fields["startTime"]))
		endTime := parseTime(rowValue(row, fields["endTime"]))
		durationS := parseDuration(rowValue(row, fields["duration"]))
		if durationS == 0 && startTime != "" && endTime != "" {
			diff := clockSeconds(endTime) - clockSeconds(startTime)
			if diff < 0 {
				diff += 24 * 3600 // landing past midnight
			}
			if diff > 0 {
				durationS = diff
			}
		}

		distanceKm, _ := toNumber(rowValue(row, fields["distance"]))
		maxAltitude, _ := toNumber(rowValue(row, fields["maxAltitude"]))
		takeoff := rowValue(row, fields["takeoff"])
		if takeoff == "" {
			takeoff = rowValue(row, fields["site"])
		}
		landing := rowValue(row, fields["landing"])
		pilot := rowValue(row, fields["pilot"])
		routeType := rowValue(row, fields["routeType"])
		igcFileName := rowValue(row, fields["igcFileName"])

		var points []models.Point
		if lat, ok := toNumber(rowValue(row, fields["takeoffLat"])); ok {
			if lng, ok := toNumber(rowValue(row, fields["takeoffLng"])); ok {
				points = append(points, models.Point{Label: "Takeoff", Latitude: lat, Longitude: lng, Time: startTime})
			}
		}
		if lat, ok := toNumber(rowValue(row, fields["landingLat"])); ok {
			if lng, ok := toNumber(rowValue(row, fields["landingLng"])); ok {
				points = append(points, models.Point{Label: "Landing", Latitude: lat, Longitude: lng, Time: endTime})
			}
		}

		flightDuration := ""
		if durationS > 0 {
			flightDuration = flightstats.FormatDuration(float64(durationS))
		}

		stats := &models.FlightStatistics{
			Classification: classifyRouteType(routeType),
			Date:           date,
			DurationS:      float64(durationS),
			StartTime:      startTime,
			EndTime:        endTime,
			FlightDuration: flightDuration,
			RouteDistance:  distanceKm,
			TotalDistance:  distanceKm,
			FreeDistance:   distanceKm,
			MaxAltitude:    maxAltitude,
			Pilot:          pilot,
			Site:           takeoff,
			Points:         points,
		}

		normalized = append(normalized, Row{
			SourceFile:  sourceFileName,
			RowNumber:   rowNumber,
			IGCFileName: baseName(igcFileName),
			Stats:       stats,
			Raw:         row,
			Summary: Summary{
				Date:       date,
				DistanceKm: distanceKm,
				Duration:   flightDuration,
				Takeoff:    takeoff,
				Landing:    landing,
			},
		})
	}

	return normalized, errs
}

func buildFieldMap(headers []string) map[string]int {
	normalized := lo.Map(headers, func(h string, _ int) string {
		return strings.ToLower(strings.TrimSpace(h))
	})
	fields := make(map[string]int, len(fieldAliases))
	for field, aliases := range fieldAliases {
		fields[field] = -1
		for _, alias := range aliases {
			if i := lo.IndexOf(normalized, alias); i >= 0 {
				fields[field] = i
				break
			}
		}
	}
	return fields
}

func rowValue(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

var (
	plainSecondsRe = regexp.MustCompile(`^\d+(\.\d+)?$`)
	clockRe        = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	hourMinuteRe   = regexp.MustCompile(`(?i)(?:(\d+)\s*h)?\s*(\d+)\s*m`)
	isoDateRe      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dmyDateRe      = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})$`)
	nonNumericRe   = regexp.MustCompile(`[^0-9.+-]`)
)

// parseDuration accepts raw seconds, H:MM[:SS] and "2h 15m" style values.
// 0 means no duration.
func parseDuration(raw string) int {
	if raw == "" {
		return 0
	}
	if plainSecondsRe.MatchString(raw) {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return int(v)
		}
	}
	if m := clockRe.FindStringSubmatch(raw); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds := 0
		if m[3] != "" {
			seconds, _ = strconv.Atoi(m[3])
		}
		return hours*3600 + minutes*60 + seconds
	}
	if m := hourMinuteRe.FindStringSubmatch(raw); m != nil {
		hours := 0
		if m[1] != "" {
			hours, _ = strconv.Atoi(m[1])
		}
		minutes, _ := strconv.Atoi(m[2])
		return hours*3600 + minutes*60
	}
	return 0
}

// parseTime normalizes H:MM[:SS] to HH:MM:SS, or "" if unparseable
func parseTime(raw string) string {
	m := clockRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	ss := 0
	if m[3] != "" {
		ss, _ = strconv.Atoi(m[3])
	}
	return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
}

func clockSeconds(hhmmss string) int {
	parts := strings.Split(hhmmss, ":")
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	s, _ := strconv.Atoi(parts[2])
	return h*3600 + m*60 + s
}

// normalizeDate accepts ISO dates, day-first numeric dates with ./- or /
// separators (two-digit years mean 2000+), and a few textual layouts.
// Returns YYYY-MM-DD or "".
func normalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	if m := isoDateRe.FindStringSubmatch(raw); m != nil {
		return raw
	}
	if m := dmyDateRe.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if year >= 2000 && year < 2200 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006/01/02", "January 2, 2006", "Jan 2, 2006", "2 January 2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return ""
}

// toNumber reads a numeric cell, tolerating a decimal comma and unit
// suffixes like "42.5 km"
func toNumber(raw string) (float64, bool) {
	normalized := strings.TrimSpace(strings.Replace(raw, ",", ".", 1))
	if normalized == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(nonNumericRe.ReplaceAllString(normalized, ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var (
	faiRe      = regexp.MustCompile(`(?i)fai`)
	triangleRe = regexp.MustCompile(`(?i)flat|triangle`)
	freeRe     = regexp.MustCompile(`(?i)free`)
)

func classifyRouteType(routeType string) string {
	switch {
	case routeType == "":
		return ""
	case faiRe.MatchString(routeType):
		return "FAI Triangle"
	case triangleRe.MatchString(routeType):
		return "Free Triangle"
	case freeRe.MatchString(routeType):
		return "Free Flight"
	default:
		return ""
	}
}

func baseName(filePath string) string {
	if filePath == "" {
		return ""
	}
	return path.Base(strings.ReplaceAll(filePath, "\\", "/"))
}
