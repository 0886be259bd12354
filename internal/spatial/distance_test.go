package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Innsbruck to Kössen, roughly 87 km
	meters := HaversineDistance(47.2692, 11.4041, 47.6699, 12.4053)
	assert.InDelta(t, 87000, meters, 5000)

	km := HaversineKm(47.2692, 11.4041, 47.6699, 12.4053)
	assert.InDelta(t, meters/1000, km, 0.001)

	assert.Equal(t, 0.0, HaversineDistance(47.0, 11.0, 47.0, 11.0))
}
