// Package igc parses IGC flight-recorder track logs. Record decoding is
// delegated to the ezgliding decoder; this package adds tolerant handling of
// known non-standard header spellings and header extraction the decoder does
// not cover.
package igc

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	goigc "github.com/ezgliding/goigc/pkg/igc"

	"github.com/soaringlab/flightlog-backend-go/internal/models"
)

// ErrInvalidFormat reports content that could not be parsed as IGC even
// after the reformatting retry
var ErrInvalidFormat = errors.New("invalid IGC format")

var (
	dateHeaderRe      = regexp.MustCompile(`(?i)^H[FSO]DTE(?:DATE:?)?(\d{2})(\d{2})(\d{2})`)
	classHeaderRe     = regexp.MustCompile(`(?i)^H[FSO]CCL(?:COMPETITION ?CLASS)?:?(.*)$`)
	nonStandardDate   = "HFDTEDATE:"
	nonStandardClass  = "HSCCLCOMPETITION CLASS:"
	canonicalDate     = "HFDTE"
	canonicalClassKey = "HFCCLCOMPETITIONCLASS:"
)

// Parse decodes IGC content into a FlightTrack. When the decoder rejects the
// content one deterministic reformatting pass normalizes known non-standard
// header spellings and parsing is retried once. The returned string is the
// content that actually parsed (reformatted when the retry was needed).
func Parse(content string) (*models.FlightTrack, string, error) {
	trk, err := goigc.Parse(content)
	if err != nil {
		reformatted := ReformatContent(content)
		trk, err = goigc.Parse(reformatted)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		content = reformatted
	}
	if len(trk.Points) == 0 {
		return nil, "", fmt.Errorf("%w: no fix records", ErrInvalidFormat)
	}

	date := trk.Date
	if date.IsZero() {
		date = dateFromHeader(content)
	}

	fixes := make([]models.Fix, 0, len(trk.Points))
	base := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if date.IsZero() {
		base = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	var prev int64
	rollover := time.Duration(0)
	for _, p := range trk.Points {
		clock := time.Duration(p.Time.Hour())*time.Hour +
			time.Duration(p.Time.Minute())*time.Minute +
			time.Duration(p.Time.Second())*time.Second
		ts := base.Add(clock + rollover).UnixMilli()
		if ts < prev {
			// UTC midnight crossed mid-flight
			rollover += 24 * time.Hour
			ts = base.Add(clock + rollover).UnixMilli()
		}
		prev = ts

		alt := float64(p.GNSSAltitude)
		if alt == 0 {
			alt = float64(p.PressureAltitude)
		}
		fixes = append(fixes, models.Fix{
			Timestamp:   ts,
			Latitude:    p.Lat.Degrees(),
			Longitude:   p.Lng.Degrees(),
			GPSAltitude: alt,
		})
	}

	track := &models.FlightTrack{
		Fixes:            fixes,
		Pilot:            strings.TrimSpace(trk.Pilot),
		GliderType:       strings.TrimSpace(trk.GliderType),
		CompetitionClass: CompetitionClass(content),
	}
	if !date.IsZero() {
		track.Date = date.Format("2006-01-02")
	}
	return track, content, nil
}

// ReformatContent normalizes known non-standard header spellings to their
// canonical forms so the decoder accepts them
func ReformatContent(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(trimmed, nonStandardDate):
			lines[i] = canonicalDate + strings.TrimPrefix(trimmed, nonStandardDate)
		case strings.HasPrefix(trimmed, nonStandardClass):
			lines[i] = canonicalClassKey + strings.TrimPrefix(trimmed, nonStandardClass)
		}
	}
	return strings.Join(lines, "\n")
}

// CompetitionClass extracts the free-text competition class from the header
// section via case-insensitive prefix match. Returns "" when absent.
func CompetitionClass(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if m := classHeaderRe.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// dateFromHeader parses the HFDTE header family (DDMMYY)
func dateFromHeader(content string) time.Time {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if m := dateHeaderRe.FindStringSubmatch(line); m != nil {
			day := atoi2(m[1])
			month := atoi2(m[2])
			year := 2000 + atoi2(m[3])
			if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
				return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			}
		}
	}
	return time.Time{}
}

func atoi2(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
