package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeQuotingAndBlankRows(t *testing.T) {
	content := "date,site,notes\r\n" +
		"2025-02-10,\"Kössen, AT\",\"He said \"\"go\"\"\"\n" +
		",, \n" +
		"2025-02-11,Bassano,\"multi\nline\"\n"

	headers, rows := Tokenize(content)

	assert.Equal(t, []string{"date", "site", "notes"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2025-02-10", "Kössen, AT", `He said "go"`}, rows[0])
	assert.Equal(t, []string{"2025-02-11", "Bassano", "multi\nline"}, rows[1])
}

func TestTokenizeEmpty(t *testing.T) {
	headers, rows := Tokenize("\n\n ,, \n")
	assert.Empty(t, headers)
	assert.Empty(t, rows)
}

func TestNormalizeFullRow(t *testing.T) {
	content := "Flight Date,Distance km,Duration,Takeoff_Time,landing_time,Launch,ldg,Pilot_Name,route,igc_file,launch_lat,launch_lng,max altitude\n" +
		"10.02.2025,\"42,5 km\",2:15,9:30,11:45:30,Kössen,Schwendt,Jane Doe,FAI triangle,tracks/flight1.igc,47.66,12.40,2450\n"

	rows, errs := Normalize(content, "logbook.csv")

	require.Empty(t, errs)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "logbook.csv", row.SourceFile)
	assert.Equal(t, 2, row.RowNumber)
	assert.Equal(t, "flight1.igc", row.IGCFileName)

	stats := row.Stats
	assert.Equal(t, "2025-02-10", stats.Date)
	assert.Equal(t, 42.5, stats.RouteDistance)
	assert.Equal(t, 42.5, stats.TotalDistance)
	assert.Equal(t, 42.5, stats.FreeDistance)
	assert.Equal(t, float64(2*3600+15*60), stats.DurationS)
	assert.Equal(t, "2h 15m", stats.FlightDuration)
	assert.Equal(t, "09:30:00", stats.StartTime)
	assert.Equal(t, "11:45:30", stats.EndTime)
	assert.Equal(t, "Jane Doe", stats.Pilot)
	assert.Equal(t, "Kössen", stats.Site)
	assert.Equal(t, "FAI Triangle", stats.Classification)
	assert.Equal(t, 2450.0, stats.MaxAltitude)

	require.Len(t, stats.Points, 1)
	assert.Equal(t, "Takeoff", stats.Points[0].Label)
	assert.Equal(t, 47.66, stats.Points[0].Latitude)
	assert.Equal(t, 12.40, stats.Points[0].Longitude)
	assert.Equal(t, "09:30:00", stats.Points[0].Time)

	assert.Equal(t, "Kössen", row.Summary.Takeoff)
	assert.Equal(t, "Schwendt", row.Summary.Landing)
	assert.Equal(t, 42.5, row.Summary.DistanceKm)
}

func TestNormalizeBadRowIsIsolated(t *testing.T) {
	content := "date,distance\n" +
		"2025-02-10,12\n" +
		"not-a-date,30\n" +
		"11/03/2025,18\n"

	rows, errs := Normalize(content, "mixed.csv")

	require.Len(t, rows, 2)
	assert.Equal(t, "2025-02-10", rows[0].Stats.Date)
	assert.Equal(t, "2025-03-11", rows[1].Stats.Date)
	assert.Equal(t, 4, rows[1].RowNumber)

	require.Len(t, errs, 1)
	assert.Equal(t, "Row 3: missing or invalid date", errs[0])
}

func TestNormalizeDurationFromClockTimes(t *testing.T) {
	content := "date,start_time,end_time\n" +
		"2025-02-10,23:30,00:45\n"

	rows, errs := Normalize(content, "night.csv")

	require.Empty(t, errs)
	require.Len(t, rows, 1)
	// landing past midnight wraps forward
	assert.Equal(t, float64(75*60), rows[0].Stats.DurationS)
	assert.Equal(t, "1h 15m", rows[0].Stats.FlightDuration)
}

func TestNormalizeEmptyContent(t *testing.T) {
	rows, errs := Normalize("", "empty.csv")
	assert.Empty(t, rows)
	assert.Equal(t, []string{"CSV appears empty"}, errs)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5400, parseDuration("5400"))
	assert.Equal(t, 8100, parseDuration("2:15"))
	assert.Equal(t, 8130, parseDuration("2:15:30"))
	assert.Equal(t, 8100, parseDuration("2h 15m"))
	assert.Equal(t, 900, parseDuration("15m"))
	assert.Equal(t, 0, parseDuration("soon"))
	assert.Equal(t, 0, parseDuration(""))
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2025-02-10", normalizeDate("2025-02-10"))
	assert.Equal(t, "2025-02-10", normalizeDate("10.02.2025"))
	assert.Equal(t, "2025-02-10", normalizeDate("10/02/25"))
	assert.Equal(t, "2025-02-10", normalizeDate("10-2-2025"))
	assert.Equal(t, "", normalizeDate("10.02.1999"))
	assert.Equal(t, "", normalizeDate("yesterday"))
}

func TestToNumber(t *testing.T) {
	v, ok := toNumber("42,5 km")
	assert.True(t, ok)
	assert.Equal(t, 42.5, v)

	_, ok = toNumber("")
	assert.False(t, ok)
	_, ok = toNumber("n/a")
	assert.False(t, ok)
}
