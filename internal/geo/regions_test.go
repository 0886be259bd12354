package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionsContainsAlps(t *testing.T) {
	tagger := NewTagger()

	// Innsbruck area
	assert.Contains(t, tagger.Regions(47.2, 11.4), "alps")
	// North Sea: nothing
	assert.Empty(t, tagger.Regions(54.5, 4.0))
}

func TestCountryLookup(t *testing.T) {
	tagger := NewTagger()

	assert.Equal(t, "Switzerland", tagger.Country(46.6, 8.0))
	assert.Equal(t, "", tagger.Country(0, 0))
}

func TestTagDeduplicates(t *testing.T) {
	tagger := NewTagger()

	regions, countries := tagger.Tag([][2]float64{
		{47.2, 11.4},
		{47.21, 11.41},
		{54.5, 4.0},
	})
	assert.Equal(t, []string{"alps"}, regions)
	assert.Equal(t, []string{"Austria"}, countries)
}
