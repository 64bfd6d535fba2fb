package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePoint(t *testing.T) {
	assert.Equal(t, 0.0, Distance(49.2827, -123.1207, 49.2827, -123.1207))
}

func TestDistance_KnownPairs(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tolerance              float64
	}{
		{
			// Vancouver Art Gallery to Vancouver City Hall, ~2.6 km
			name: "across downtown",
			lat1: 49.2827, lon1: -123.1207,
			lat2: 49.2609, lon2: -123.1139,
			want: 2470, tolerance: 100,
		},
		{
			// One degree of latitude is ~111.2 km everywhere
			name: "one degree latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			want: 111195, tolerance: 100,
		},
		{
			name: "ten meters apart",
			lat1: 49.28270, lon1: -123.12070,
			lat2: 49.28279, lon2: -123.12070,
			want: 10, tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	d1 := Distance(49.28, -123.12, 49.26, -123.11)
	d2 := Distance(49.26, -123.11, 49.28, -123.12)
	assert.InDelta(t, d1, d2, 1e-9)
}
