// Package geo tags route points with named geographic regions and a coarse
// country label. The region set is a small fixed table of flying areas; a
// point matching nothing contributes nothing.
package geo

import "github.com/samber/lo"

// LatLng is a polygon vertex in decimal degrees
type LatLng struct {
	Lat float64
	Lng float64
}

// Region is a named polygon
type Region struct {
	Name    string
	Polygon []LatLng
}

type countryBox struct {
	name           string
	minLat, maxLat float64
	minLng, maxLng float64
}

// Coarse outlines, good enough for tagging a flight with its mountain range.
var defaultRegions = []Region{
	{
		Name: "alps",
		Polygon: []LatLng{
			{Lat: 43.5, Lng: 5.0}, {Lat: 46.5, Lng: 5.0}, {Lat: 48.2, Lng: 9.5},
			{Lat: 48.2, Lng: 14.0}, {Lat: 46.6, Lng: 16.2}, {Lat: 45.2, Lng: 15.0},
			{Lat: 44.0, Lng: 7.8},
		},
	},
	{
		Name: "pyrenees",
		Polygon: []LatLng{
			{Lat: 41.8, Lng: -2.0}, {Lat: 43.5, Lng: -2.0}, {Lat: 43.5, Lng: 3.3},
			{Lat: 41.8, Lng: 3.3},
		},
	},
	{
		Name: "carpathians",
		Polygon: []LatLng{
			{Lat: 44.5, Lng: 22.0}, {Lat: 47.5, Lng: 17.5}, {Lat: 49.8, Lng: 19.0},
			{Lat: 49.0, Lng: 26.5}, {Lat: 45.0, Lng: 26.5},
		},
	},
}

// Bounding boxes only; precise borders belong to a real geocoder.
var defaultCountries = []countryBox{
	{name: "Switzerland", minLat: 45.8, maxLat: 47.9, minLng: 5.9, maxLng: 10.5},
	{name: "Austria", minLat: 46.3, maxLat: 49.1, minLng: 9.5, maxLng: 17.2},
	{name: "Slovenia", minLat: 45.4, maxLat: 46.9, minLng: 13.3, maxLng: 16.6},
	{name: "Italy", minLat: 36.6, maxLat: 47.1, minLng: 6.6, maxLng: 18.6},
	{name: "France", minLat: 42.3, maxLat: 51.1, minLng: -5.2, maxLng: 8.3},
	{name: "Germany", minLat: 47.2, maxLat: 55.1, minLng: 5.8, maxLng: 15.1},
	{name: "Spain", minLat: 36.0, maxLat: 43.8, minLng: -9.3, maxLng: 3.4},
}

// Tagger resolves points to region and country tags
type Tagger struct {
	regions   []Region
	countries []countryBox
}

// NewTagger creates a tagger with the built-in region and country tables
func NewTagger() *Tagger {
	return &Tagger{regions: defaultRegions, countries: defaultCountries}
}

// Regions returns the names of all regions containing the point
func (t *Tagger) Regions(lat, lng float64) []string {
	var names []string
	for _, r := range t.regions {
		if pointInPolygon(lat, lng, r.Polygon) {
			names = append(names, r.Name)
		}
	}
	return names
}

// Country returns a coarse country label for the point, or "" when unknown.
// Boxes overlap near borders; the first match wins.
func (t *Tagger) Country(lat, lng float64) string {
	for _, c := range t.countries {
		if lat >= c.minLat && lat <= c.maxLat && lng >= c.minLng && lng <= c.maxLng {
			return c.name
		}
	}
	return ""
}

// Tag accumulates deduplicated region and country tags for a set of points
func (t *Tagger) Tag(points [][2]float64) (regions, countries []string) {
	for _, p := range points {
		regions = append(regions, t.Regions(p[0], p[1])...)
		if c := t.Country(p[0], p[1]); c != "" {
			countries = append(countries, c)
		}
	}
	return lo.Uniq(regions), lo.Uniq(countries)
}

// pointInPolygon uses the even-odd ray casting rule
func pointInPolygon(lat, lng float64, polygon []LatLng) bool {
	inside := false
	n := len(polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := polygon[i], polygon[j]
		if (pi.Lat > lat) != (pj.Lat > lat) &&
			lng < (pj.Lng-pi.Lng)*(lat-pi.Lat)/(pj.Lat-pi.Lat)+pi.Lng {
			inside = !inside
		}
	}
	return inside
}
